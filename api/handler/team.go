package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/planner/api/transport"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/usecase/membership"
)

type TeamHandler struct {
	baseHandler
	uc *membership.UseCase
}

func NewTeamHandler(uc *membership.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List team members
// @Tags teams
// @Router /api/v1/teams/{teamId}/members [get]
func (h *TeamHandler) ListMembers(ctx *fasthttp.RequestCtx) {
	email, ok := h.actingEmail(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	members, err := h.uc.ListMembers(stdCtx, pathParam(ctx, "teamId"), email)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(members))
}
