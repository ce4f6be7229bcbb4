package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_DisplayName(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		expected  string
	}{
		{"first and last", Principal{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}, "Ada Lovelace"},
		{"first only", Principal{FirstName: "Ada", Username: "ada"}, "Ada"},
		{"last only falls back to username", Principal{LastName: "Lovelace", Username: "ada"}, "ada"},
		{"nothing", Principal{}, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.principal.DisplayName())
		})
	}
}

func TestMembership_Valid(t *testing.T) {
	assert.True(t, MembershipFree.Valid())
	assert.True(t, MembershipPro.Valid())
	assert.False(t, Membership("enterprise").Valid())
	assert.False(t, Membership("").Valid())
}

func TestCustomerUpdate_IsEmpty(t *testing.T) {
	pro := MembershipPro
	assert.True(t, CustomerUpdate{}.IsEmpty())
	assert.False(t, CustomerUpdate{Membership: &pro}.IsEmpty())
}
