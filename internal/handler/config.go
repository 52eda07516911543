package handler

import (
	"net/http"
	"time"

	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

type configResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	DataType    string    `json:"dataType"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toConfigResponse(e *runtimeconfig.Entry) configResponse {
	return configResponse{
		Key:         e.Key,
		Value:       e.Value,
		Description: e.Description,
		DataType:    e.DataType,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (h *Handler) listConfigs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.configs.List(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]configResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toConfigResponse(&entries[i]))
	}
	h.ok(w, "configurations retrieved", out)
}

type updateConfigRequest struct {
	Value string `json:"value"`
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req updateConfigRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := identityFrom(r.Context())

	if err := h.configs.Update(r.Context(), key, req.Value, identity.UserID); err != nil {
		h.failErr(w, r, err)
		return
	}

	entry, err := h.configs.Get(r.Context(), key)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "configuration updated", toConfigResponse(entry))
}
