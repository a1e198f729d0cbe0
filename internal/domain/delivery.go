package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3,4}-\d{4}$`)

type Address struct {
	ZipCode        string `json:"zip_code"`
	DefaultAddress string `json:"default_address"`
	DetailAddress  string `json:"detail_address"`
}

type DeliveryFields struct {
	Receiver    string  `json:"receiver"`
	Nickname    string  `json:"nickname"`
	PhoneNumber string  `json:"phone_number"`
	Address     Address `json:"address"`
}

func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

func (f DeliveryFields) Validate() error {
	required := []struct{ name, value string }{
		{"receiver", f.Receiver},
		{"nickname", f.Nickname},
		{"phone_number", f.PhoneNumber},
		{"address.zip_code", f.Address.ZipCode},
		{"address.default_address", f.Address.DefaultAddress},
		{"address.detail_address", f.Address.DetailAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s required", ErrValidation, r.name)
		}
	}
	if !ValidPhoneNumber(f.PhoneNumber) {
		return fmt.Errorf("%w: phone_number %q must look like 010-1234-5678", ErrValidation, f.PhoneNumber)
	}
	return nil
}
