package application

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novamart/storefront-api/internal/domain/apperr"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// PaymentService simulates a card gateway. No real charge happens: a
// sixteen digit card is accepted unless it ends in 0000, which always
// declines. Deterministic enough for demos, useless for production.
type PaymentService struct{}

func NewPaymentService() *PaymentService { return &PaymentService{} }

type CardInput struct {
	CardNumber string
	CardHolder string
	ExpiryDate string
	CVV        string
	Amount     float64
}

type PaymentResult struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

// Process validates the card details and returns a fake transaction
// reference on success.
func (s *PaymentService) Process(in CardInput) (*PaymentResult, error) {
	if in.CardNumber == "" || in.CardHolder == "" || in.ExpiryDate == "" || in.CVV == "" {
		return nil, apperr.Validation("please provide all card details")
	}
	clean := strings.ReplaceAll(in.CardNumber, " ", "")
	if !cardNumberRe.MatchString(clean) {
		return nil, apperr.Validation("invalid card number, must be 16 digits")
	}
	if !cvvRe.MatchString(in.CVV) {
		return nil, apperr.Validation("invalid cvv")
	}
	if strings.HasSuffix(clean, "0000") {
		return nil, apperr.Validation("payment failed, your card was declined")
	}
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return &PaymentResult{
		TransactionID: fmt.Sprintf("DEMO_%d_%s", time.Now().UnixMilli(), token),
		Amount:        in.Amount,
		Status:        "succeeded",
	}, nil
}
