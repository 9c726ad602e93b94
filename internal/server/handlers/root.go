package handlers

import (
	"net/http"

	"github.com/moritani/accountd/internal/apierrors"
)

// NotFound handles GET / and every unrouted path. There is no root
// resource; the response is the JSON 404 envelope rather than the
// router's default plain-text body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, http.StatusNotFound, apierrors.MsgNotFound)
}
