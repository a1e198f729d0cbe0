package config

import (
	"fmt"
	"strings"
)

// Required collects missing settings so startup reports all of them at once.
type Required struct {
	missing []string
}

func (r *Required) NonEmpty(value, envName string) *Required {
	if strings.TrimSpace(value) == "" {
		r.missing = append(r.missing, envName)
	}
	return r
}

func (r *Required) NonEmptyBytes(value []byte, envName string) *Required {
	if len(value) == 0 {
		r.missing = append(r.missing, envName)
	}
	return r
}

func (r *Required) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required env %s", strings.Join(r.missing, ", "))
}
