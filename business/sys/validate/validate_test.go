package validate_test

import (
	"testing"

	"github.com/ardanlabs/powchain/business/sys/validate"
)

type chainRequest struct {
	Chain string `json:"chain" validate:"required,hexadecimal"`
}

func Test_Check(t *testing.T) {
	if err := validate.Check(chainRequest{Chain: "0x0045"}); err != nil {
		t.Fatalf("Should accept a hex chain: %s", err)
	}

	err := validate.Check(chainRequest{})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should return field errors, got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["chain"]; !exists {
		t.Fatalf("Should name the field by its json tag, got %v", fields)
	}
}
