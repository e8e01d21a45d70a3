package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

func TestNumber_Lenient(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{`1.5`, 1.5, true},
		{`-3`, -3, true},
		{`"2.25"`, 2.25, true},
		{`" 7 "`, 7, true},
		{`null`, 0, false},
		{`"heavy"`, 0, false},
		{`""`, 0, false},
		{`{"mm": 3}`, 0, false},
		{`[1]`, 0, false},
		{`true`, 0, false},
		{`"NaN"`, 0, false},
		{`"Inf"`, 0, false},
		{`1e400`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				N Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &v))
			assert.Equal(t, tt.valid, v.N.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, v.N.Value)
				assert.Equal(t, tt.want, *v.N.Ptr())
			} else {
				assert.Nil(t, v.N.Ptr())
			}
		})
	}
}

func TestCount_Lenient(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{`12`, 12, true},
		{`"12"`, 12, true},
		{`12.9`, 12, true},
		{`-4`, -4, true},
		{`"a dozen"`, 0, false},
		{`null`, 0, false},
		{`1e12`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				C Count `json:"c"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"c":`+tt.in+`}`), &v))
			assert.Equal(t, tt.valid, v.C.Valid)
			assert.Equal(t, tt.want, v.C.Value)
		})
	}
}

func TestNumber_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A Number `json:"a"`
		B Count  `json:"b"`
		C Number `json:"c"`
	}{A: Number{Value: 0.5, Valid: true}, B: Count{Value: 3, Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.5,"b":3,"c":null}`, string(b))
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", "", domain.EINVALID},
		{"whitespace", "  \n", domain.EINVALID},
		{"malformed", `{"raw_text": `, domain.EINVALID},
		{"trailing data", `{} {}`, domain.EINVALID},
		{"too large", `{"raw_text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, domain.ETOOLARGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/ky/triage", strings.NewReader(tt.body))
			var dst triageRequest
			err := decodeJSON(httptest.NewRecorder(), req, "test", &dst)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}

	req := httptest.NewRequest("POST", "/api/ky/triage", strings.NewReader(`{"raw_text":"a","unknown":1,"limit":"3"}`))
	var dst triageRequest
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, "test", &dst))
	assert.Equal(t, "a", dst.RawText)
	assert.Equal(t, 3, *dst.Limit.Ptr())
}
