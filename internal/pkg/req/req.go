/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates strict JSON body decoding: unknown fields and trailing content
are rejected so malformed requests fail early with a uniform error.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kurenai-11/socket-chat-app/internal/pkg/errs"
)

// BindJSON binds the JSON request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
