package handlers

import (
	"net/http"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
	"github.com/hello-jai/banking-management-system/internal/dto"
	"github.com/hello-jai/banking-management-system/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	svc *service.BankService
}

func NewAccountHandler(svc *service.BankService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Create godoc
// @Summary      Open an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAccountRequest  true  "Account body"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.svc.CreateAccount(c.Request.Context(), req.CustomerID, dom.AccountType(req.Type),
		req.Password, req.InitialBalance, req.InterestRate, req.OverdraftLimit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, accountToResponse(a))
}

// List godoc
// @Summary      List all accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  dto.ListAccountsResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	list := h.svc.ListAccounts(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Items: accountsToResponses(list)})
}

// GetByNumber godoc
// @Summary      Get an account by number
// @Tags         accounts
// @Produce      json
// @Param        number  path      string  true  "Account number"
// @Success      200     {object}  dto.AccountResponse
// @Failure      404     {object}  map[string]string
// @Router       /accounts/{number} [get]
func (h *AccountHandler) GetByNumber(c *gin.Context) {
	a, err := h.svc.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountToResponse(a))
}

// Authenticate godoc
// @Summary      Check an account password
// @Description  A wrong password counts toward the lockout threshold; the third one locks the account.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        number  path      string                   true  "Account number"
// @Param        body    body      dto.AuthenticateRequest  true  "Password"
// @Success      200     {object}  dto.AuthenticateResponse
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      423     {object}  map[string]string
// @Router       /accounts/{number}/authenticate [post]
func (h *AccountHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Authenticate(c.Request.Context(), c.Param("number"), req.Password); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthenticateResponse{Authenticated: true})
}

// Deposit godoc
// @Summary      Deposit into an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string            false  "Replay-safe retry key"
// @Param        number           path      string            true   "Account number"
// @Param        body             body      dto.MoneyRequest  true   "Amount and password"
// @Success      200              {object}  dto.AccountResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      423              {object}  map[string]string
// @Router       /accounts/{number}/deposit [post]
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.MoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.svc.Deposit(c.Request.Context(), c.Param("number"), req.Password, req.Amount)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountToResponse(a))
}

// Withdraw godoc
// @Summary      Withdraw from an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string            false  "Replay-safe retry key"
// @Param        number           path      string            true   "Account number"
// @Param        body             body      dto.MoneyRequest  true   "Amount and password"
// @Success      200              {object}  dto.AccountResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Failure      423              {object}  map[string]string
// @Router       /accounts/{number}/withdraw [post]
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req dto.MoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.svc.Withdraw(c.Request.Context(), c.Param("number"), req.Password, req.Amount)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountToResponse(a))
}

// Transfer godoc
// @Summary      Transfer between accounts
// @Description  Atomic: both balances change or neither does. Gated by the source account's password.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string               false  "Replay-safe retry key"
// @Param        body             body      dto.TransferRequest  true   "Transfer body"
// @Success      200              {object}  dto.TransferResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Failure      423              {object}  map[string]string
// @Router       /transfer [post]
func (h *AccountHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, to, err := h.svc.Transfer(c.Request.Context(), req.FromNumber, req.Password, req.ToNumber, req.Amount)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransferResponse{
		From: accountToResponse(from),
		To:   accountToResponse(to),
	})
}

// Unlock godoc
// @Summary      Unlock an account
// @Description  Operator action: clears the lock and the failed-attempt counter.
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Password  header    string  true  "Admin password"
// @Param        number            path      string  true  "Account number"
// @Success      200               {object}  dto.AccountResponse
// @Failure      401               {object}  map[string]string
// @Failure      404               {object}  map[string]string
// @Router       /accounts/{number}/unlock [post]
func (h *AccountHandler) Unlock(c *gin.Context) {
	a, err := h.svc.Unlock(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountToResponse(a))
}

// ApplyInterest godoc
// @Summary      Apply interest to all savings accounts
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Password  header    string  true  "Admin password"
// @Success      200               {object}  dto.ApplyInterestResponse
// @Failure      401               {object}  map[string]string
// @Router       /interest/apply [post]
func (h *AccountHandler) ApplyInterest(c *gin.Context) {
	credited := h.svc.ApplyInterest(c.Request.Context())
	c.JSON(http.StatusOK, dto.ApplyInterestResponse{Credited: credited})
}

func accountToResponse(a dom.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		Number:         a.Number,
		CustomerID:     a.CustomerID,
		Type:           string(a.Type),
		Balance:        a.Balance,
		FailedAttempts: a.FailedAttempts,
		Locked:         a.Locked,
		CreatedAt:      a.CreatedAt,
	}
	switch a.Type {
	case dom.AccountTypeSavings:
		rate := a.InterestRate
		resp.InterestRate = &rate
	case dom.AccountTypeChecking:
		limit := a.OverdraftLimit
		resp.OverdraftLimit = &limit
	}
	return resp
}

func accountsToResponses(list []dom.Account) []dto.AccountResponse {
	out := make([]dto.AccountResponse, len(list))
	for i := range list {
		out[i] = accountToResponse(list[i])
	}
	return out
}
