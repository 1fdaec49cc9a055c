package sync

import (
	"strings"

	"brevosync/internal/services/brevo"
)

// Token mapping between local message-template tokens (%Customer.Email%) and
// Brevo's flat attribute vocabulary (CUSTOMER_EMAIL). Brevo attribute names
// forbid parentheses, so the literal "(s)" plural marker is escaped as "-s-".
//
// The mapping is not bijective: tokens that already contain underscores, the
// literal "-S-", or lowercase characters cannot be restored exactly by
// ReverseMapToken. That matches the upstream behavior and is covered by tests
// as accepted-lossy cases.

const tokenDelimiter = "%"

// MapToken converts a local template token to a Brevo attribute name.
func MapToken(token string) string {
	name := strings.ReplaceAll(token, tokenDelimiter, "")
	name = strings.ReplaceAll(name, "(s)", "-s-")
	name = strings.ReplaceAll(name, ".", "_")
	return strings.ToUpper(name)
}

// ReverseMapToken converts a Brevo attribute name back to a local template
// token by applying the inverse substitutions.
func ReverseMapToken(name string) string {
	token := strings.ReplaceAll(name, "_", ".")
	token = strings.ReplaceAll(token, "-S-", "(s)")
	return tokenDelimiter + token + tokenDelimiter
}

// MapTemplateContent rewrites every local token occurring in content into the
// {{params.NAME}} placeholder form Brevo templates use.
func MapTemplateContent(content string, tokens []string) string {
	for _, token := range tokens {
		content = strings.ReplaceAll(content, token, "{{params."+MapToken(token)+"}}")
	}
	return content
}

// ReverseMapTemplateContent rewrites Brevo placeholders back into local
// tokens when importing a remote template.
func ReverseMapTemplateContent(content string) string {
	for {
		start := strings.Index(content, "{{params.")
		if start < 0 {
			return content
		}
		end := strings.Index(content[start:], "}}")
		if end < 0 {
			return content
		}
		name := content[start+len("{{params.") : start+end]
		content = content[:start] + ReverseMapToken(name) + content[start+end+2:]
	}
}

// Default token vocabulary pushed to Brevo as contact attributes, keyed by
// attribute category.
var DefaultTokens = map[string][]string{
	brevo.AttributeCategoryNormal: {
		"%Customer.Username%",
		"%Customer.Phone%",
		"%Customer.Country%",
		"%Store.Id%",
	},
	brevo.AttributeCategoryTransactional: {
		"%Order.OrderId%",
		"%Order.PaidDate%",
		"%Order.OrderTotal%",
		"%Order.Product(s)%",
	},
}

// PrepareAttributes creates the attributes required by tokens that do not yet
// exist remotely, batched into at most one create call per category. Calling
// it again with an unchanged token set issues no create calls.
func PrepareAttributes(client *brevo.Client, tokens map[string][]string) error {
	existing, err := client.GetAttributes()
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(existing.Attributes))
	for _, attr := range existing.Attributes {
		known[attr.Name] = true
	}

	for category, categoryTokens := range tokens {
		var missing []brevo.Attribute
		for _, token := range categoryTokens {
			name := MapToken(token)
			if !known[name] {
				missing = append(missing, brevo.Attribute{Name: name, Type: "text"})
			}
		}
		if len(missing) == 0 {
			continue
		}
		if err := client.CreateAttributes(category, missing); err != nil {
			return err
		}
	}
	return nil
}
