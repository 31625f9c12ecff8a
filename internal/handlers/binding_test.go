package handlers

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Code   string          `json:"account_code"`
	Amount decimal.Decimal `json:"amount"`
}

func bindContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindNestedOrFlat(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bindTarget
		wantErr bool
	}{
		{
			name: "nested",
			body: `{"account": {"account_code": "1110", "amount": "100.00"}}`,
			want: bindTarget{Code: "1110", Amount: decimal.RequireFromString("100.00")},
		},
		{
			name: "flat",
			body: `{"account_code": "4100", "amount": 12.5}`,
			want: bindTarget{Code: "4100", Amount: decimal.RequireFromString("12.5")},
		},
		{
			name: "other keys fall back to flat",
			body: `{"meta": {"source": "import"}, "account_code": "2100"}`,
			want: bindTarget{Code: "2100"},
		},
		{
			name: "non-object under key is treated as a field",
			body: `{"account": "1110", "account_code": "1120"}`,
			want: bindTarget{Code: "1120"},
		},
		{name: "bad amount", body: `{"account": {"amount": "ten"}}`, wantErr: true},
		{name: "array body", body: `[{"account_code": "1"}]`, wantErr: true},
		{name: "empty body", body: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bindTarget
			err := BindNestedOrFlat(bindContext(tt.body), "account", &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Code, got.Code)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s", got.Amount)
		})
	}
}

func TestBindNestedOrFlat_KeepsBodyReadable(t *testing.T) {
	c := bindContext(`{"account_code": "1110"}`)
	var got bindTarget
	require.NoError(t, BindNestedOrFlat(c, "account", &got))

	rest, err := io.ReadAll(c.Request.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"account_code": "1110"}`, string(rest))
}

func TestBindNestedOrFlat_RejectsOversizedBody(t *testing.T) {
	c := bindContext(`{"account_code": "` + strings.Repeat("9", maxBodyBytes) + `"}`)
	var got bindTarget
	assert.Error(t, BindNestedOrFlat(c, "account", &got))
}
