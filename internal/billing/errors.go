package billing

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a billing failure so handlers can pick a response class
// without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidQuantity
	KindInsufficientStock
	KindEmptyOrder
	KindInvalidDenomination
	KindInsufficientPayment
	KindInsufficientDenominationStock
	KindNegativeStock
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidQuantity:
		return "invalid_quantity"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindEmptyOrder:
		return "empty_order"
	case KindInvalidDenomination:
		return "invalid_denomination"
	case KindInsufficientPayment:
		return "insufficient_payment"
	case KindInsufficientDenominationStock:
		return "insufficient_denomination_stock"
	case KindNegativeStock:
		return "negative_stock"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a billing failure carrying its kind and a client-safe reason.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds a billing error of the given kind.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report KindUnknown.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// HTTPStatus maps a failure kind to a response status. Validation and stock
// floor violations are client errors, missing entities are 404, everything
// unclassified is a server error.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidQuantity, KindInsufficientStock, KindEmptyOrder,
		KindInvalidDenomination, KindInsufficientPayment,
		KindInsufficientDenominationStock, KindNegativeStock:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
