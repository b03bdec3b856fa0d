package core

import (
	"errors"
	"fmt"
	"strings"
)

// ChooseCategory is the placeholder shown before a category is picked.
const ChooseCategory = "Choose Category"

const (
	// MaxNameLength bounds transaction names on the entry forms.
	MaxNameLength = 30
	// MaxFormAmountCents bounds the amount accepted by the add form.
	MaxFormAmountCents = 10000_00
)

// Form boundary errors. The stores never return these; they are reported to
// the user before a mutation is dispatched.
var (
	ErrChooseCategory = errors.New("please select or add a valid category")
	ErrMissingField   = errors.New("please fill out all details")
	ErrNameTooLong    = fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	ErrAmountTooLarge = fmt.Errorf("amount too large (max %d)", MaxFormAmountCents/100)
)

// TransactionForm holds the raw input of the add-transaction form.
type TransactionForm struct {
	Type     TransactionType
	Name     string
	Category string
	Amount   string
}

// Transaction validates the form and returns the transaction it describes.
// The returned value has no ID; the ledger assigns one.
func (f TransactionForm) Transaction() (Transaction, error) {
	if err := f.Type.Validate(); err != nil {
		return Transaction{}, err
	}
	if err := checkCategory(f.Category); err != nil {
		return Transaction{}, err
	}
	name, err := checkName(f.Name)
	if err != nil {
		return Transaction{}, err
	}
	amount, err := checkAmount(f.Amount)
	if err != nil {
		return Transaction{}, err
	}
	if amount.Cents() > MaxFormAmountCents {
		return Transaction{}, ErrAmountTooLarge
	}
	return Transaction{
		Name:     name,
		Category: strings.TrimSpace(f.Category),
		Amount:   amount,
		Type:     f.Type,
	}, nil
}

// EditForm holds the raw input of the edit-transaction form. Every field is
// required, as on the add form.
type EditForm struct {
	Name     string
	Category string
	Amount   string
}

// Patch validates the form and returns the patch it describes.
func (f EditForm) Patch() (Patch, error) {
	if err := checkCategory(f.Category); err != nil {
		return Patch{}, err
	}
	name, err := checkName(f.Name)
	if err != nil {
		return Patch{}, err
	}
	amount, err := checkAmount(f.Amount)
	if err != nil {
		return Patch{}, err
	}
	category := strings.TrimSpace(f.Category)
	return Patch{Name: &name, Amount: &amount, Category: &category}, nil
}

// TargetForm holds the raw input of the budget/goal form.
type TargetForm struct {
	Type       TargetType
	Category   string
	TimePeriod TimePeriod
	Amount     string
}

// Target validates the form and returns the target it describes. An empty
// time period defaults to monthly.
func (f TargetForm) Target() (Target, error) {
	if err := f.Type.Validate(); err != nil {
		return Target{}, err
	}
	if err := checkCategory(f.Category); err != nil {
		return Target{}, err
	}
	period := f.TimePeriod
	if period == "" {
		period = Monthly
	}
	if err := period.Validate(); err != nil {
		return Target{}, err
	}
	amount, err := checkAmount(f.Amount)
	if err != nil {
		return Target{}, err
	}
	return Target{
		Category:   strings.TrimSpace(f.Category),
		TimePeriod: period,
		Amount:     amount,
		Type:       f.Type,
	}, nil
}

func checkCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" || category == ChooseCategory {
		return ErrChooseCategory
	}
	return nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name", ErrMissingField)
	}
	if len([]rune(name)) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func checkAmount(raw string) (Money, error) {
	if strings.TrimSpace(raw) == "" {
		return Money{}, fmt.Errorf("%w: amount", ErrMissingField)
	}
	return ParseMoney(raw)
}
