package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestV2(t *testing.T) {
	assert.Equal(t, `mr\_bob \(v1\.2\)\!`, V2("mr_bob (v1.2)!"))
	assert.Equal(t, `a\\b \#1 \{x\}`, V2(`a\b #1 {x}`))
	assert.Equal(t, "Привет", V2("Привет"))
}

func TestBold(t *testing.T) {
	assert.Equal(t, `*Head of IT\.*`, Bold("Head of IT."))
	assert.Equal(t, "**", Bold(""))
}
