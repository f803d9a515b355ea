// Package handlers implements the HTTP endpoints of the molgraph API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/common"
)

// SMILESRequest is the body of every single-molecule endpoint.
type SMILESRequest struct {
	SMILES string `json:"smiles" binding:"required"`
}

// PairRequest is the body of the similarity endpoint.
type PairRequest struct {
	SMILESA string `json:"smiles_a" binding:"required"`
	SMILESB string `json:"smiles_b" binding:"required"`
}

// MoleculeHandler serves the molecule endpoints.
type MoleculeHandler struct {
	svc    *appmol.Service
	logger logging.Logger
}

// NewMoleculeHandler wires the handler onto the application service.
func NewMoleculeHandler(svc *appmol.Service, logger logging.Logger) *MoleculeHandler {
	return &MoleculeHandler{svc: svc, logger: logger.Named("http.molecule")}
}

// statusForError maps error-code families onto HTTP statuses: malformed
// SMILES is the caller's fault, failed perception is a semantic 422, and
// everything unclassified is a 500.
func statusForError(err error) int {
	code := errors.GetCode(err)
	switch {
	case errors.IsParseCode(code):
		return http.StatusBadRequest
	case errors.IsPerceptionCode(code):
		return http.StatusUnprocessableEntity
	case code == errors.CodeNotFound:
		return http.StatusNotFound
	case code == errors.CodeInvalidParam, code == errors.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var detail string
	var ae *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		ae = e
		detail = e.Detail
	}
	msg := err.Error()
	if ae != nil {
		msg = ae.Message
	}
	c.JSON(statusForError(err),
		common.NewErrorResponse(string(errors.GetCode(err)), msg, detail))
}

func bindSMILES(c *gin.Context) (string, bool) {
	var req SMILESRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(
			string(errors.CodeInvalidParam), "smiles field is required", err.Error()))
		return "", false
	}
	return req.SMILES, true
}

// Parse handles POST /api/v1/molecules/parse.
func (h *MoleculeHandler) Parse(c *gin.Context) {
	smiles, ok := bindSMILES(c)
	if !ok {
		return
	}
	info, err := h.svc.Parse(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(info))
}

// Canonicalize handles POST /api/v1/molecules/canonicalize.
func (h *MoleculeHandler) Canonicalize(c *gin.Context) {
	smiles, ok := bindSMILES(c)
	if !ok {
		return
	}
	out, err := h.svc.Canonicalize(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"canonical_smiles": out}))
}

// Kekulize handles POST /api/v1/molecules/kekulize.
func (h *MoleculeHandler) Kekulize(c *gin.Context) {
	smiles, ok := bindSMILES(c)
	if !ok {
		return
	}
	out, err := h.svc.Kekulize(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"smiles": out}))
}

// Delocalize handles POST /api/v1/molecules/delocalize.
func (h *MoleculeHandler) Delocalize(c *gin.Context) {
	smiles, ok := bindSMILES(c)
	if !ok {
		return
	}
	out, err := h.svc.Delocalize(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"smiles": out}))
}

// Similarity handles POST /api/v1/molecules/similarity.
func (h *MoleculeHandler) Similarity(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(
			string(errors.CodeInvalidParam), "smiles_a and smiles_b are required", err.Error()))
		return
	}
	sim, err := h.svc.Similarity(c.Request.Context(), req.SMILESA, req.SMILESB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"similarity": sim}))
}

// Register handles POST /api/v1/molecules.
func (h *MoleculeHandler) Register(c *gin.Context) {
	smiles, ok := bindSMILES(c)
	if !ok {
		return
	}
	rec, err := h.svc.Register(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(rec))
}
