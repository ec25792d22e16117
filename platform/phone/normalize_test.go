package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"(512) 555-0147":  "+15125550147",
		"+1 312 555 0199": "+13125550199",
		"  ":              "",
		"call the office": "call the office",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeE164(in), in)
	}
}
