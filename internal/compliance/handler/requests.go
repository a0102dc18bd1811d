package handler

import (
	"strings"

	"assetgov/internal/compliance/modules"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
)

// BindModuleRequest is the body for POST /engines/{engine}/modules.
type BindModuleRequest struct {
	Module string `json:"module"`

	parsedModule domain.Address
}

// Validate implements httputil.Validatable.
func (r *BindModuleRequest) Validate() error {
	addr, err := httputil.RequiredAddress("module", r.Module)
	if err != nil {
		return err
	}
	r.parsedModule = addr
	return nil
}

func (r *BindModuleRequest) ParsedModule() domain.Address {
	return r.parsedModule
}

// CallRequest is an encoded module call. A batch lists its sub-calls.
type CallRequest struct {
	modules.Call
}

// Validate implements httputil.Validatable.
func (r *CallRequest) Validate() error {
	r.Method = strings.TrimSpace(r.Method)
	if r.Method == "" {
		return dErrors.New(dErrors.CodeValidation, "method is required")
	}
	if r.Method == modules.MethodBatch {
		if len(r.Calls) == 0 {
			return dErrors.New(dErrors.CodeValidation, "batch requires at least one call")
		}
		if len(r.Calls) > modules.MaxBatchCalls {
			return modules.ErrBatchTooLarge
		}
		for _, c := range r.Calls {
			if strings.TrimSpace(c.Method) == "" {
				return dErrors.New(dErrors.CodeValidation, "every batched call needs a method")
			}
		}
	}
	return nil
}

// PresetEntry seeds one holder's balance.
type PresetEntry struct {
	Holder domain.Address `json:"holder"`
	Amount uint64         `json:"amount"`
}

// PresetRequest is the body for POST /engines/{engine}/modules/{module}/presets.
type PresetRequest struct {
	Balances []PresetEntry `json:"balances"`
	Complete bool          `json:"complete"`

	parsedBalances map[domain.Address]uint64
}

const maxPresetEntries = 500

// Validate implements httputil.Validatable.
func (r *PresetRequest) Validate() error {
	if len(r.Balances) == 0 && !r.Complete {
		return dErrors.New(dErrors.CodeValidation, "nothing to preset")
	}
	if len(r.Balances) > maxPresetEntries {
		return dErrors.New(dErrors.CodeValidation, "too many preset entries")
	}
	r.parsedBalances = make(map[domain.Address]uint64, len(r.Balances))
	for _, b := range r.Balances {
		if b.Holder.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "holder is required")
		}
		if _, dup := r.parsedBalances[b.Holder]; dup {
			return dErrors.New(dErrors.CodeValidation, "holder listed twice")
		}
		r.parsedBalances[b.Holder] = b.Amount
	}
	return nil
}

func (r *PresetRequest) ParsedBalances() map[domain.Address]uint64 {
	return r.parsedBalances
}

// CheckRequest is the body for POST /engines/{engine}/checks. An empty from
// checks a mint.
type CheckRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`

	parsedFrom domain.Address
	parsedTo   domain.Address
}

// Validate implements httputil.Validatable.
func (r *CheckRequest) Validate() error {
	to, err := httputil.RequiredAddress("to", r.To)
	if err != nil {
		return err
	}
	r.parsedTo = to
	if from := strings.TrimSpace(r.From); from != "" {
		r.parsedFrom, err = domain.ParseAddress(from)
		if err != nil {
			return err
		}
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}

func (r *CheckRequest) ParsedFrom() domain.Address { return r.parsedFrom }

func (r *CheckRequest) ParsedTo() domain.Address { return r.parsedTo }
