package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	dom "github.com/hello-jai/banking-management-system/internal/domain"
)

// LedgerRepo persists the customer and account books as one unit.
type LedgerRepo interface {
	Load(ctx context.Context) (map[string]*dom.Customer, map[string]*dom.Account, error)
	Save(ctx context.Context, customers map[string]*dom.Customer, accounts map[string]*dom.Account) error
}

// JSONLedgerRepo stores the ledger as two JSON documents, each an object
// keyed by id. Writes go to a temp file first and are renamed into place, so
// a crash mid-write cannot corrupt the previous snapshot.
type JSONLedgerRepo struct {
	customerPath string
	accountPath  string
}

func NewJSONLedgerRepo(customerPath, accountPath string) *JSONLedgerRepo {
	return &JSONLedgerRepo{customerPath: customerPath, accountPath: accountPath}
}

// Load reads both documents. Missing files yield empty books; a file that
// exists but does not parse is an error, so a damaged ledger never silently
// starts empty. Account rows with an unknown type are skipped.
func (r *JSONLedgerRepo) Load(ctx context.Context) (map[string]*dom.Customer, map[string]*dom.Account, error) {
	rawCustomers := map[string]persistCustomer{}
	if err := readJSON(r.customerPath, &rawCustomers); err != nil {
		return nil, nil, fmt.Errorf("load customers: %w", err)
	}
	customers := make(map[string]*dom.Customer, len(rawCustomers))
	for _, pc := range rawCustomers {
		c := pc.toDomain()
		customers[c.ID] = c
	}

	rawAccounts := map[string]persistAccount{}
	if err := readJSON(r.accountPath, &rawAccounts); err != nil {
		return nil, nil, fmt.Errorf("load accounts: %w", err)
	}
	accounts := make(map[string]*dom.Account, len(rawAccounts))
	for _, pa := range rawAccounts {
		a, ok := pa.toDomain()
		if !ok {
			continue
		}
		accounts[a.Number] = a
	}

	return customers, accounts, nil
}

// Save writes both documents in full.
func (r *JSONLedgerRepo) Save(ctx context.Context, customers map[string]*dom.Customer, accounts map[string]*dom.Account) error {
	outCustomers := make(map[string]persistCustomer, len(customers))
	for _, c := range customers {
		outCustomers[c.ID] = customerToPersist(c)
	}
	if err := writeJSON(r.customerPath, outCustomers); err != nil {
		return fmt.Errorf("save customers: %w", err)
	}

	outAccounts := make(map[string]persistAccount, len(accounts))
	for _, a := range accounts {
		outAccounts[a.Number] = accountToPersist(a)
	}
	if err := writeJSON(r.accountPath, outAccounts); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
