package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"carparts/contexts/marketplace/parts-service/application"
	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	"carparts/contexts/marketplace/parts-service/domain/services"
	"carparts/contexts/marketplace/parts-service/ports"
	httptransport "carparts/contexts/marketplace/parts-service/transport/http"
	identityv1 "carparts/contracts/identity/v1"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListPartsHandler godoc
// @Summary List parts
// @Description Public catalog, newest first. Text filters match case-insensitively by substring.
// @Tags parts
// @Produce json
// @Param carName query string false "Car name"
// @Param model query string false "Model"
// @Param category query string false "Category"
// @Param year query int false "Model year"
// @Success 200 {object} httptransport.ListPartsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/parts [get]
func (h Handler) ListPartsHandler(ctx context.Context, req httptransport.ListPartsRequest) (httptransport.ListPartsResponse, error) {
	filter := ports.PartFilter{
		CarName:  req.CarName,
		Model:    req.Model,
		Category: req.Category,
	}
	if year := strings.TrimSpace(req.Year); year != "" {
		value, err := strconv.Atoi(year)
		if err != nil {
			return httptransport.ListPartsResponse{}, domainerrors.ErrInvalidYear
		}
		filter.Year = value
	}
	parts, err := h.Service.ListParts(ctx, filter)
	if err != nil {
		return httptransport.ListPartsResponse{}, err
	}
	return mapParts(parts), nil
}

// GetPartHandler godoc
// @Summary Get part
// @Tags parts
// @Produce json
// @Param id path int true "Part id"
// @Success 200 {object} httptransport.PartResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/parts/{id} [get]
func (h Handler) GetPartHandler(ctx context.Context, partID int64) (httptransport.PartResponse, error) {
	part, err := h.Service.GetPart(ctx, partID)
	if err != nil {
		return httptransport.PartResponse{}, err
	}
	return httptransport.PartResponse{Part: mapPart(part)}, nil
}

// ListSellerPartsHandler godoc
// @Summary List my parts
// @Description Parts listed by the calling seller or admin.
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListPartsResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/seller/parts [get]
func (h Handler) ListSellerPartsHandler(ctx context.Context, actor identityv1.Identity) (httptransport.ListPartsResponse, error) {
	parts, err := h.Service.ListSellerParts(ctx, actor)
	if err != nil {
		return httptransport.ListPartsResponse{}, err
	}
	return mapParts(parts), nil
}

// CreatePartHandler godoc
// @Summary Create part
// @Tags parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.PartRequest true "Part"
// @Success 201 {object} httptransport.PartResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/parts [post]
func (h Handler) CreatePartHandler(
	ctx context.Context,
	actor identityv1.Identity,
	req httptransport.PartRequest,
) (httptransport.PartResponse, error) {
	year, err := parseYear(req)
	if err != nil {
		return httptransport.PartResponse{}, err
	}
	part, err := h.Service.CreatePart(ctx, actor, services.PartDraft{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Price:       req.Price,
		Category:    deref(req.Category),
		CarName:     deref(req.CarName),
		Model:       deref(req.Model),
		Year:        year,
		InStock:     req.InStock,
		ImageURL:    deref(req.ImageURL),
	})
	if err != nil {
		return httptransport.PartResponse{}, err
	}
	return httptransport.PartResponse{Message: "Part created successfully", Part: mapPart(part)}, nil
}

// UpdatePartHandler godoc
// @Summary Update part
// @Description Partial update. Sellers may only edit their own parts.
// @Tags parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Part id"
// @Param request body httptransport.PartRequest true "Fields to change"
// @Success 200 {object} httptransport.PartResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/parts/{id} [put]
func (h Handler) UpdatePartHandler(
	ctx context.Context,
	actor identityv1.Identity,
	partID int64,
	req httptransport.PartRequest,
) (httptransport.PartResponse, error) {
	year, err := parseYear(req)
	if err != nil {
		return httptransport.PartResponse{}, err
	}
	part, err := h.Service.UpdatePart(ctx, actor, partID, application.PartPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		CarName:     req.CarName,
		Model:       req.Model,
		Year:        year,
		InStock:     req.InStock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return httptransport.PartResponse{}, err
	}
	return httptransport.PartResponse{Message: "Part updated successfully", Part: mapPart(part)}, nil
}

// DeletePartHandler godoc
// @Summary Delete part
// @Tags parts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Part id"
// @Success 200 {object} httptransport.MessageResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/parts/{id} [delete]
func (h Handler) DeletePartHandler(ctx context.Context, actor identityv1.Identity, partID int64) (httptransport.MessageResponse, error) {
	if err := h.Service.DeletePart(ctx, actor, partID); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Part deleted successfully"}, nil
}

func parseYear(req httptransport.PartRequest) (*int, error) {
	if req.Year == nil {
		return nil, nil
	}
	value, err := req.Year.Int64()
	if err != nil {
		return nil, domainerrors.ErrInvalidYear
	}
	year := int(value)
	return &year, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func mapParts(parts []entities.Part) httptransport.ListPartsResponse {
	items := make([]httptransport.PartDTO, 0, len(parts))
	for _, part := range parts {
		items = append(items, mapPart(part))
	}
	return httptransport.ListPartsResponse{Parts: items}
}

func mapPart(part entities.Part) httptransport.PartDTO {
	return httptransport.PartDTO{
		ID:          part.PartID,
		SellerID:    part.SellerID,
		Name:        part.Name,
		Description: part.Description,
		Price:       part.Price,
		Category:    part.Category,
		CarName:     part.CarName,
		Model:       part.Model,
		Year:        part.Year,
		InStock:     part.InStock,
		ImageURL:    part.ImageURL,
		CreatedAt:   part.CreatedAt,
		UpdatedAt:   part.UpdatedAt,
	}
}
