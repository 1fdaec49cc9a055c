package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brevosync/internal/logger"
	"brevosync/internal/services/brevo"
)

func TestMapToken(t *testing.T) {
	assert.Equal(t, "CUSTOMER_EMAIL", MapToken("%Customer.Email%"))
	assert.Equal(t, "ORDER_PRODUCT-S-", MapToken("%Order.Product(s)%"))
	assert.Equal(t, "STORE_ID", MapToken("%Store.Id%"))
}

func TestReverseMapToken(t *testing.T) {
	assert.Equal(t, "%ORDER.TOTAL%", ReverseMapToken("ORDER_TOTAL"))
	assert.Equal(t, "%ORDER.PRODUCT(s)%", ReverseMapToken("ORDER_PRODUCT-S-"))
}

func TestTokenRoundTrip(t *testing.T) {
	// Uppercase tokens free of underscores and the (s) marker survive the
	// round trip exactly.
	for _, token := range []string{"%ORDER.TOTAL%", "%STORE.ID%", "%CUSTOMER.EMAIL%"} {
		assert.Equal(t, token, ReverseMapToken(MapToken(token)))
	}
}

func TestTokenRoundTripLossyCases(t *testing.T) {
	// Accepted-lossy: mixed case folds to upper.
	assert.Equal(t, "%CUSTOMER.EMAIL%", ReverseMapToken(MapToken("%Customer.Email%")))

	// Accepted-lossy: a pre-existing underscore comes back as a dot.
	assert.Equal(t, "%MY.TOKEN%", ReverseMapToken(MapToken("%MY_TOKEN%")))

	// Accepted-lossy: a literal -S- that never was "(s)" comes back as "(s)".
	assert.Equal(t, "%A(s)B%", ReverseMapToken(MapToken("%A-S-B%")))
}

func TestMapTemplateContent(t *testing.T) {
	content := "Hello %Customer.Email%, your order %ORDER.TOTAL% is ready"
	mapped := MapTemplateContent(content, []string{"%Customer.Email%", "%ORDER.TOTAL%"})
	assert.Equal(t, "Hello {{params.CUSTOMER_EMAIL}}, your order {{params.ORDER_TOTAL}} is ready", mapped)
}

func TestReverseMapTemplateContent(t *testing.T) {
	content := "Hello {{params.CUSTOMER_EMAIL}}, total {{params.ORDER_TOTAL}}"
	assert.Equal(t, "Hello %CUSTOMER.EMAIL%, total %ORDER.TOTAL%", ReverseMapTemplateContent(content))
}

func TestPrepareAttributesCreatesOnlyMissing(t *testing.T) {
	var createCalls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/contacts/attributes":
			json.NewEncoder(w).Encode(brevo.AttributesResponse{Attributes: []brevo.Attribute{
				{Name: "CUSTOMER_USERNAME", Category: "normal"},
			}})
		case r.Method == http.MethodPost:
			createCalls = append(createCalls, r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := brevo.NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	tokens := map[string][]string{
		brevo.AttributeCategoryNormal: {"%Customer.Username%", "%Customer.Phone%"},
	}
	require.NoError(t, PrepareAttributes(client, tokens))
	assert.Equal(t, []string{"/contacts/attributes/normal"}, createCalls)
}

func TestPrepareAttributesIdempotent(t *testing.T) {
	createCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/contacts/attributes":
			json.NewEncoder(w).Encode(brevo.AttributesResponse{Attributes: []brevo.Attribute{
				{Name: "CUSTOMER_USERNAME", Category: "normal"},
				{Name: "CUSTOMER_PHONE", Category: "normal"},
				{Name: "ORDER_ORDERID", Category: "transactional"},
			}})
		case r.Method == http.MethodPost:
			createCalls++
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := brevo.NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	tokens := map[string][]string{
		brevo.AttributeCategoryNormal:        {"%Customer.Username%", "%Customer.Phone%"},
		brevo.AttributeCategoryTransactional: {"%Order.OrderId%"},
	}
	require.NoError(t, PrepareAttributes(client, tokens))
	assert.Zero(t, createCalls, "unchanged token set must not issue creation calls")
}

func TestSMSPhone(t *testing.T) {
	assert.Equal(t, "612345678", SMSPhone("+33 6 12 34 56 78", "FR"))
	assert.Equal(t, "612345678", SMSPhone("0033612345678", "FR"))
	assert.Equal(t, "612345678", SMSPhone("06 12 34 56 78", "FR"))
	assert.Equal(t, "5551234567", SMSPhone("+1 (555) 123-4567", "US"))
	assert.Equal(t, "123456", SMSPhone("00123456", "XX"))
}
