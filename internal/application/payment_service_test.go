package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/storefront-api/internal/domain/apperr"
)

func validCard() CardInput {
	return CardInput{
		CardNumber: "4242 4242 4242 4242",
		CardHolder: "Sam Carter",
		ExpiryDate: "12/27",
		CVV:        "123",
		Amount:     59.99,
	}
}

func TestPaymentService_Process_Succeeds(t *testing.T) {
	svc := NewPaymentService()

	res, err := svc.Process(validCard())
	require.NoError(t, err)
	assert.Equal(t, "succeeded", res.Status)
	assert.Equal(t, 59.99, res.Amount)
	assert.True(t, strings.HasPrefix(res.TransactionID, "DEMO_"))
}

func TestPaymentService_Process_TransactionIDsDiffer(t *testing.T) {
	svc := NewPaymentService()

	a, err := svc.Process(validCard())
	require.NoError(t, err)
	b, err := svc.Process(validCard())
	require.NoError(t, err)
	assert.NotEqual(t, a.TransactionID, b.TransactionID)
}

func TestPaymentService_Process_MissingFields(t *testing.T) {
	svc := NewPaymentService()

	cases := []func(*CardInput){
		func(c *CardInput) { c.CardNumber = "" },
		func(c *CardInput) { c.CardHolder = "" },
		func(c *CardInput) { c.ExpiryDate = "" },
		func(c *CardInput) { c.CVV = "" },
	}
	for _, mutate := range cases {
		in := validCard()
		mutate(&in)
		_, err := svc.Process(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestPaymentService_Process_CardNumberShape(t *testing.T) {
	svc := NewPaymentService()

	in := validCard()
	in.CardNumber = "4242 4242 4242" // 12 digits
	_, err := svc.Process(in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validCard()
	in.CardNumber = "4242-4242-4242-4242" // dashes are not stripped
	_, err = svc.Process(in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPaymentService_Process_CVVShape(t *testing.T) {
	svc := NewPaymentService()

	for _, cvv := range []string{"12", "12345", "abc"} {
		in := validCard()
		in.CVV = cvv
		_, err := svc.Process(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "cvv %q should be rejected", cvv)
	}

	in := validCard()
	in.CVV = "1234" // amex style is fine
	_, err := svc.Process(in)
	assert.NoError(t, err)
}

func TestPaymentService_Process_DeclineSuffix(t *testing.T) {
	svc := NewPaymentService()

	in := validCard()
	in.CardNumber = "4242 4242 4242 0000"
	_, err := svc.Process(in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "declined")
}
