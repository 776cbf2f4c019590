// Package bind decodes request bodies into structs and runs the
// struct-tag validator, writing the envelope error response itself when
// input is bad. Handlers call it as:
//
//	var form loginForm
//	if !bind.JSON(w, r, &form) {
//		return
//	}
package bind

import (
	"encoding/json"
	"net/http"

	"github.com/tavolo/tavolo/pkg/response"
	"github.com/tavolo/tavolo/pkg/validate"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// JSON decodes and validates the body into dest. It returns false after
// writing a 400/422 response when the body is malformed or invalid.
func JSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return false
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		response.Invalid(w, validate.First(errs), errs)
		return false
	}
	return true
}
