package response_models

import (
	"time"

	"colabora/internal/models/db_models"
	"colabora/pkg/utils"
)

type ListSummary struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	EventDate time.Time `json:"event_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ListDetail struct {
	ID          string         `json:"id"`
	Location    string         `json:"location"`
	Description *string        `json:"description"`
	EventDate   time.Time      `json:"event_date"`
	Status      string         `json:"status"`
	UpdatedBy   *string        `json:"updated_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID                 string           `json:"id"`
	ItemName           string           `json:"item_name"`
	QuantityPerPortion float64          `json:"quantity_per_portion"`
	UnitType           string           `json:"unit_type"`
	Position           int              `json:"position"`
	TotalParcels       int              `json:"total_parcels"`
	ClaimedParcels     int              `json:"claimed_parcels"`
	Parcels            []ParcelResponse `json:"parcels"`
}

type ParcelResponse struct {
	ID           string     `json:"id"`
	Position     int        `json:"position"`
	Claimed      bool       `json:"claimed"`
	MemberName   *string    `json:"member_name"`
	MemberCPF    *string    `json:"member_cpf"`
	RegisteredAt *time.Time `json:"registered_at"`
}

func NewListSummary(l *db_models.List) ListSummary {
	return ListSummary{
		ID:        l.ID.String(),
		Location:  l.Location,
		EventDate: l.EventDate,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
}

// NewListDetail maps a list with its items and parcels. The public view
// masks claimant CPFs and hides who last edited the list.
func NewListDetail(l *db_models.List, items []db_models.Item, public bool) ListDetail {
	out := ListDetail{
		ID:          l.ID.String(),
		Location:    l.Location,
		Description: l.Description,
		EventDate:   l.EventDate,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Items:       make([]ItemResponse, 0, len(items)),
	}
	if !public && l.UpdatedBy != nil {
		s := l.UpdatedBy.String()
		out.UpdatedBy = &s
	}

	for i := range items {
		item := &items[i]
		ir := ItemResponse{
			ID:                 item.ID.String(),
			ItemName:           item.Name,
			QuantityPerPortion: item.PortionSize,
			UnitType:           item.UnitType,
			Position:           item.Position,
			TotalParcels:       len(item.Parcels),
			Parcels:            make([]ParcelResponse, 0, len(item.Parcels)),
		}
		for j := range item.Parcels {
			p := &item.Parcels[j]
			if p.Claimed() {
				ir.ClaimedParcels++
			}
			ir.Parcels = append(ir.Parcels, NewParcelResponse(p, public))
		}
		out.Items = append(out.Items, ir)
	}
	return out
}

func NewParcelResponse(p *db_models.Parcel, public bool) ParcelResponse {
	pr := ParcelResponse{
		ID:           p.ID.String(),
		Position:     p.Position,
		Claimed:      p.Claimed(),
		MemberName:   p.MemberName,
		MemberCPF:    p.MemberCPF,
		RegisteredAt: p.RegisteredAt,
	}
	if public && p.MemberCPF != nil {
		masked := utils.MaskCPF(*p.MemberCPF)
		pr.MemberCPF = &masked
	}
	return pr
}
