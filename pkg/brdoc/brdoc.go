// Package brdoc formats Brazilian documents and phone numbers: CPF masks,
// landline/mobile phone masks, E.164 normalization, and WhatsApp deep links.
package brdoc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// Digits strips everything that is not a digit.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FormatCPF masks an 11-digit CPF as 123.456.789-00. Inputs with a different
// digit count are returned unchanged (already-masked or partial values).
func FormatCPF(cpf string) string {
	d := Digits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// ValidCPF reports whether the value carries 11 digits with a valid check
// digit pair. Sequences of a single repeated digit are rejected.
func ValidCPF(cpf string) bool {
	d := Digits(cpf)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, string(d[0])) == 11 {
		return false
	}
	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(d[i]-'0') * (pos + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != int(d[pos]-'0') {
			return false
		}
	}
	return true
}

// FormatPhone masks a BR phone number: 11 digits as (##) #####-####,
// 10 digits as (##) ####-####. Other lengths are returned unchanged.
func FormatPhone(phone string) string {
	d := Digits(phone)
	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:7], d[7:11])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:6], d[6:10])
	default:
		return phone
	}
}

// E164 normalizes a BR phone number to E.164 with the 55 country code.
// Numbers already carrying the prefix are not double-prefixed.
func E164(phone string) string {
	d := Digits(phone)
	if d == "" {
		return ""
	}
	if strings.HasPrefix(d, "55") && len(d) >= 12 {
		return "+" + d
	}
	return "+55" + d
}

// WhatsAppLink builds a https://wa.me deep link for the given phone and
// pre-filled message text.
func WhatsAppLink(phone, text string) string {
	num := strings.TrimPrefix(E164(phone), "+")
	link := "https://wa.me/" + num
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}
