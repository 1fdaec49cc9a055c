package sync

import "strings"

// Country dial codes used to normalize phone numbers into the SMS-ready
// format Brevo expects (national number without dial-code prefix).
var dialCodes = map[string]string{
	"US": "1",
	"CA": "1",
	"GB": "44",
	"FR": "33",
	"DE": "49",
	"ES": "34",
	"IT": "39",
	"NL": "31",
	"BE": "32",
	"PT": "351",
	"AU": "61",
	"NZ": "64",
	"BR": "55",
	"MX": "52",
	"IN": "91",
	"CN": "86",
	"JP": "81",
	"NG": "234",
	"ZA": "27",
}

// SMSPhone strips the country dial-code prefix (and any +/00 lead-in) from a
// phone number. Unknown country codes only get the lead-in stripped.
func SMSPhone(phone, countryCode string) string {
	number := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if strings.HasPrefix(number, "00") {
		number = number[2:]
	}
	if code, ok := dialCodes[strings.ToUpper(countryCode)]; ok {
		number = strings.TrimPrefix(number, code)
	}
	return strings.TrimLeft(number, "0")
}
