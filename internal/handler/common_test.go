package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-ledger/internal/ledger"

	"github.com/gin-gonic/gin"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{fmt.Errorf("%w: amount must be positive", ledger.ErrValidation), http.StatusBadRequest, 40001},
		{ledger.ErrUnauthorized, http.StatusUnauthorized, 40101},
		{fmt.Errorf("%w: account 3", ledger.ErrNotFound), http.StatusNotFound, 40401},
		{fmt.Errorf("%w: username already exists", ledger.ErrConflict), http.StatusConflict, 40901},
		{fmt.Errorf("%w: insert: disk I/O error", ledger.ErrStorage), http.StatusInternalServerError, 50001},
		{errors.New("unclassified"), http.StatusInternalServerError, 50001},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
		respondErr(c, tc.err)

		if rec.Code != tc.wantStatus {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.wantStatus)
		}
		var body struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Code != tc.wantCode {
			t.Errorf("%v: code = %d, want %d", tc.err, body.Code, tc.wantCode)
		}
		if tc.wantStatus == http.StatusInternalServerError && body.Message != "internal server error" {
			t.Errorf("storage detail leaked: %q", body.Message)
		}
	}
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		raw  string
		ok   bool
		want uint
	}{{"12", true, 12}, {"0", false, 0}, {"-1", false, 0}, {"x", false, 0}} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}
		id, ok := paramID(c, "id")
		if ok != tc.ok || id != tc.want {
			t.Errorf("paramID(%q) = %d, %v", tc.raw, id, ok)
		}
		if !ok && rec.Code != http.StatusBadRequest {
			t.Errorf("paramID(%q) status = %d, want 400", tc.raw, rec.Code)
		}
	}
}
