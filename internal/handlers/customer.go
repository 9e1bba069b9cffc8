package handlers

import (
	"net/http"
	"strconv"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
	"github.com/hello-jai/banking-management-system/internal/dto"
	"github.com/hello-jai/banking-management-system/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	svc *service.BankService
}

func NewCustomerHandler(svc *service.BankService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Create godoc
// @Summary      Register a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCustomerRequest  true  "Customer body"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cust, err := h.svc.CreateCustomer(c.Request.Context(), req.ID, req.Name, req.Address)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customerToResponse(cust))
}

// List godoc
// @Summary      List all customers
// @Tags         customers
// @Produce      json
// @Success      200  {object}  dto.ListCustomersResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	list := h.svc.ListCustomers(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListCustomersResponse{Items: customersToResponses(list)})
}

// GetByID godoc
// @Summary      Get a customer by ID
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	cust, err := h.svc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerToResponse(cust))
}

// Accounts godoc
// @Summary      List a customer's accounts
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  dto.ListAccountsResponse
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/accounts [get]
func (h *CustomerHandler) Accounts(c *gin.Context) {
	list, err := h.svc.CustomerAccounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Items: accountsToResponses(list)})
}

// Delete godoc
// @Summary      Remove a customer
// @Description  A customer with open accounts is only removed with force=true, which closes the accounts as well.
// @Tags         customers
// @Produce      json
// @Param        id     path      string  true   "Customer ID"
// @Param        force  query     bool    false  "Close open accounts too"
// @Success      200    {object}  dto.DeleteCustomerResponse
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	id := c.Param("id")
	closed, err := h.svc.RemoveCustomer(c.Request.Context(), id, force)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	numbers := make([]string, len(closed))
	for i := range closed {
		numbers[i] = closed[i].Number
	}
	c.JSON(http.StatusOK, dto.DeleteCustomerResponse{Removed: id, ClosedAccounts: numbers})
}

func customerToResponse(cust dom.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:             cust.ID,
		Name:           cust.Name,
		Address:        cust.Address,
		AccountNumbers: cust.AccountNumbers,
		CreatedAt:      cust.CreatedAt,
	}
}

func customersToResponses(list []dom.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, len(list))
	for i := range list {
		out[i] = customerToResponse(list[i])
	}
	return out
}
