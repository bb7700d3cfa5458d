package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeValidation: http.StatusBadRequest,
	domain.CodeNotFound:   http.StatusNotFound,
	domain.CodeForbidden:  http.StatusForbidden,
	domain.CodeConflict:   http.StatusConflict,
	domain.CodeInternal:   http.StatusInternalServerError,
}

// respondError writes err with the status of its category. Storage sentinels that
// reach this point get a generic message; handlers translate the ones they expect.
func respondError(g *gin.Context, area string, err error) {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
	case errors.Is(err, storage.ErrNotFound):
		de = domain.NotFoundf("not found")
	case errors.Is(err, storage.ErrItemWithIDAlreadyExists):
		de = domain.Conflictf("item with this id already exists")
	case errors.Is(err, storage.ErrConditionFailed):
		de = domain.Conflictf("item was changed by another request, reload and retry")
	case errors.Is(err, storage.ErrAlreadyInTeam):
		de = domain.Conflictf("participant already belongs to a team")
	case errors.Is(err, storage.ErrSlotTaken):
		de = domain.Conflictf("slot is held by another team")
	default:
		logging.Log.Errorf("%s: unexpected error on %s: %v", area, g.Request.URL.Path, err)
		de = domain.Internalf("unexpected internal error")
	}

	status := statusByCode[de.Code]
	if status >= http.StatusInternalServerError {
		logging.Log.Errorf("%s: %s", area, de.Message)
	} else {
		logging.Log.Warnf("%s: %s", area, de.Message)
	}
	g.JSON(status, &models.ErrorResponse{Code: string(de.Code), Error: de.Message})
}

// bindRequest decodes and validates the JSON body, answering 400 itself on failure.
func bindRequest(g *gin.Context, req interface{}) bool {
	if err := g.ShouldBindJSON(req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: string(domain.CodeValidation), Error: "invalid request format"})
		return false
	}
	if err := models.Validate(req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: string(domain.CodeValidation), Error: err.Error()})
		return false
	}
	return true
}

func pathID(g *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(g.Param(name))
	if err != nil || id <= 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Code: string(domain.CodeValidation), Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// actorOf is only called behind AuthMiddleware.
func actorOf(g *gin.Context) domain.Actor {
	actor, _ := transport.ActorFrom(g)
	return actor
}
