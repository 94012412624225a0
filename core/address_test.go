package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", true},
		{"0xC02AAA39B223FE8D0A0E5C4F27EAD9083C756CC2", true},
		{"c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", false},
		{"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc", false},
		{"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2a", false},
		{"0xg02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidAddress(tt.address))
		})
	}
}

func TestAddressNormalization(t *testing.T) {
	lower := "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"

	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", ChecksumAddress(lower))
	assert.Equal(t, lower, NormalizeAddress(ChecksumAddress(lower)))
	assert.True(t, SameAddress(lower, ChecksumAddress(lower)))
	assert.False(t, SameAddress(lower, "0x0000000000000000000000000000000000000000"))
}
