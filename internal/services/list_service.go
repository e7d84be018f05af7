package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
	"colabora/internal/models/request_models"
	"colabora/internal/models/response_models"
	"colabora/internal/repositories"
	"colabora/pkg/utils"
)

type ListServiceInterface interface {
	CreateList(ctx context.Context, userID uuid.UUID, request request_models.CreateListRequest) (*response_models.ListDetail, error)
	CreateFromTemplate(ctx context.Context, userID, templateID uuid.UUID) (*response_models.ListDetail, error)
	GetUserLists(ctx context.Context, userID uuid.UUID) ([]response_models.ListSummary, error)
	EditList(ctx context.Context, userID, listID uuid.UUID, request request_models.EditListRequest) (*response_models.ListDetail, error)
	ToggleStatus(ctx context.Context, userID, listID uuid.UUID) (*response_models.ListSummary, error)
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
	GetPublicList(ctx context.Context, listID uuid.UUID) (*response_models.ListDetail, error)
	RegisterMember(ctx context.Context, listID uuid.UUID, request request_models.RegisterMemberRequest) (*response_models.ParcelResponse, error)
	UnregisterMember(ctx context.Context, listID, parcelID uuid.UUID) error
}

type ListService struct {
	store repositories.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewListService(store repositories.Store, log *slog.Logger) ListServiceInterface {
	return &ListService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// itemDef is an item to insert: its definition plus how many parcels.
type itemDef struct {
	name    string
	portion float64
	unit    string
	parcels int
}

func defsFromSpecs(specs []request_models.ItemSpec) ([]itemDef, error) {
	defs := make([]itemDef, 0, len(specs))
	for _, spec := range specs {
		portion := roundPortion(spec.QuantityPerPortion)
		if portion <= 0 {
			return nil, utils.BadRequest("item %q: quantity_per_portion must be at least 0.001", spec.ItemName)
		}
		if portion > maxPortionSize {
			return nil, utils.BadRequest("item %q: quantity_per_portion is too large", spec.ItemName)
		}
		if spec.QuantityTotal/portion > maxParcelsPerItem+parcelTolerance {
			return nil, utils.BadRequest("item %q: splits into more than %d parcels, increase quantity_per_portion", spec.ItemName, maxParcelsPerItem)
		}
		defs = append(defs, itemDef{
			name:    strings.TrimSpace(spec.ItemName),
			portion: portion,
			unit:    strings.TrimSpace(spec.UnitType),
			parcels: ParcelCount(spec.QuantityTotal, portion),
		})
	}
	return defs, nil
}

// defsFromItems copies item definitions, keeping the parcel count but none
// of the claims.
func defsFromItems(items []db_models.Item) []itemDef {
	defs := make([]itemDef, 0, len(items))
	for i := range items {
		n := len(items[i].Parcels)
		if n == 0 {
			n = 1
		}
		defs = append(defs, itemDef{
			name:    items[i].Name,
			portion: items[i].PortionSize,
			unit:    items[i].UnitType,
			parcels: n,
		})
	}
	return defs
}

func createItems(ctx context.Context, tx repositories.Store, listID uuid.UUID, defs []itemDef, firstPosition int) error {
	for i, def := range defs {
		item := &db_models.Item{
			ListID:      listID,
			Name:        def.name,
			PortionSize: def.portion,
			UnitType:    def.unit,
			Position:    firstPosition + i,
		}
		if err := tx.Items().Create(ctx, item); err != nil {
			return dbError("create item", err)
		}
		if err := tx.Items().CreateParcels(ctx, newParcels(item.ID, listID, 0, def.parcels)); err != nil {
			return dbError("create parcels", err)
		}
	}
	return nil
}

func loadDetail(ctx context.Context, store repositories.Store, list *db_models.List, public bool) (*response_models.ListDetail, error) {
	items, err := store.Items().ListByList(ctx, list.ID)
	if err != nil {
		return nil, dbError("list items", err)
	}
	detail := response_models.NewListDetail(list, items, public)
	return &detail, nil
}

// limitError turns a denied gate into the error for the operation: 403 when
// creating, 402 when reactivating.
func limitError(res ListLimitResult, reactivation bool) error {
	if res.MaxAllowed == 0 {
		return utils.ErrUserProfileNotFound
	}
	if !reactivation {
		return utils.Forbidden("%s", res.Reason)
	}
	if res.PlanName == "" {
		return utils.PaymentRequired("cannot reactivate list: the free trial allows %d active list, subscribe to a plan to reactivate it", res.MaxAllowed)
	}
	return utils.PaymentRequired("cannot reactivate list: plan %s allows %d active lists (%s)", res.PlanName, res.MaxAllowed, res.Reason)
}

func (s *ListService) findOwned(ctx context.Context, userID, listID uuid.UUID) (*db_models.List, error) {
	list, err := s.store.Lists().FindByID(ctx, listID)
	if err != nil {
		return nil, dbError("find list", err)
	}
	if err := checkOwner(list, userID); err != nil {
		return nil, err
	}
	return list, nil
}

func checkOwner(list *db_models.List, userID uuid.UUID) error {
	if list == nil {
		return utils.NotFound("list not found")
	}
	if list.UserID != userID {
		return utils.Forbidden("you do not own this list")
	}
	return nil
}

// lockList locks the owner's profile and then the list row, the same order
// checkListLimit uses, and returns the list as stored now.
func lockList(ctx context.Context, tx repositories.Store, userID, listID uuid.UUID) (*db_models.List, error) {
	if _, err := tx.Accounts().LockUser(ctx, userID); err != nil {
		return nil, dbError("lock user", err)
	}
	list, err := tx.Lists().LockByID(ctx, listID)
	if err != nil {
		return nil, dbError("lock list", err)
	}
	return list, nil
}

func (s *ListService) CreateList(ctx context.Context, userID uuid.UUID, request request_models.CreateListRequest) (*response_models.ListDetail, error) {
	defs, err := defsFromSpecs(request.Items)
	if err != nil {
		return nil, err
	}

	var detail *response_models.ListDetail
	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		limit, err := checkListLimit(ctx, tx, userID, s.now())
		if err != nil {
			return err
		}
		if !limit.Allowed {
			return limitError(limit, false)
		}

		list := &db_models.List{
			UserID:      userID,
			Location:    strings.TrimSpace(request.Location),
			Description: request.Description,
			EventDate:   request.EventDate,
			Status:      db_models.ListStatusActive,
		}
		if err := tx.Lists().Create(ctx, list); err != nil {
			return dbError("create list", err)
		}
		if err := createItems(ctx, tx, list.ID, defs, 0); err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, list, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "list created", "list_id", detail.ID, "user_id", userID, "items", len(defs))
	return detail, nil
}

// CreateFromTemplate copies one of the user's lists with the same items and
// parcel counts, no claims, and the event set to tomorrow.
func (s *ListService) CreateFromTemplate(ctx context.Context, userID, templateID uuid.UUID) (*response_models.ListDetail, error) {
	template, err := s.store.Lists().FindByID(ctx, templateID)
	if err != nil {
		return nil, dbError("find template", err)
	}
	if template == nil || template.UserID != userID {
		return nil, utils.NotFound("template list not found")
	}

	items, err := s.store.Items().ListByList(ctx, template.ID)
	if err != nil {
		return nil, dbError("list template items", err)
	}
	if len(items) == 0 {
		return nil, utils.BadRequest("template list has no items")
	}
	defs := defsFromItems(items)

	var detail *response_models.ListDetail
	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		now := s.now()
		limit, err := checkListLimit(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		if !limit.Allowed {
			return limitError(limit, false)
		}

		list := &db_models.List{
			UserID:      userID,
			Location:    template.Location,
			Description: template.Description,
			EventDate:   utils.NextDay(now),
			Status:      db_models.ListStatusActive,
		}
		if err := tx.Lists().Create(ctx, list); err != nil {
			return dbError("create list", err)
		}
		if err := createItems(ctx, tx, list.ID, defs, 0); err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, list, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "list created from template", "list_id", detail.ID, "template_id", templateID)
	return detail, nil
}

func (s *ListService) GetUserLists(ctx context.Context, userID uuid.UUID) ([]response_models.ListSummary, error) {
	lists, err := s.store.Lists().FindByUser(ctx, userID)
	if err != nil {
		return nil, dbError("find lists", err)
	}

	out := make([]response_models.ListSummary, 0, len(lists))
	for i := range lists {
		out = append(out, response_models.NewListSummary(&lists[i]))
	}
	return out, nil
}

func (s *ListService) EditList(ctx context.Context, userID, listID uuid.UUID, request request_models.EditListRequest) (*response_models.ListDetail, error) {
	list, err := s.findOwned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if request.Mode == request_models.EditModeReset {
		return s.resetList(ctx, userID, list, request)
	}
	return s.continueList(ctx, userID, list, request)
}

// resetList archives the list and starts a fresh copy. Claims are not
// carried over.
func (s *ListService) resetList(ctx context.Context, userID uuid.UUID, stale *db_models.List, request request_models.EditListRequest) (*response_models.ListDetail, error) {
	var defs []itemDef
	if request.Items != nil {
		var err error
		if defs, err = defsFromSpecs(request.Items); err != nil {
			return nil, err
		}
	}

	var detail *response_models.ListDetail
	err := s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		old, err := lockList(ctx, tx, userID, stale.ID)
		if err != nil {
			return err
		}
		if err := checkOwner(old, userID); err != nil {
			return err
		}

		// archiving an active list frees the slot the new one takes
		if old.Status == db_models.ListStatusArchived {
			limit, err := checkListLimit(ctx, tx, userID, s.now())
			if err != nil {
				return err
			}
			if !limit.Allowed {
				return limitError(limit, false)
			}
		}

		if defs == nil {
			items, err := tx.Items().ListByList(ctx, old.ID)
			if err != nil {
				return dbError("list items", err)
			}
			defs = defsFromItems(items)
		}

		if err := tx.Lists().UpdateStatus(ctx, old.ID, db_models.ListStatusArchived); err != nil {
			return dbError("archive list", err)
		}

		list := &db_models.List{
			UserID:      userID,
			Location:    old.Location,
			Description: old.Description,
			EventDate:   old.EventDate,
			Status:      db_models.ListStatusActive,
			UpdatedBy:   &userID,
		}
		if request.Location != nil {
			list.Location = strings.TrimSpace(*request.Location)
		}
		if request.Description != nil {
			list.Description = request.Description
		}
		if request.EventDate != nil {
			list.EventDate = *request.EventDate
		}

		if err := tx.Lists().Create(ctx, list); err != nil {
			return dbError("create list", err)
		}
		if err := createItems(ctx, tx, list.ID, defs, 0); err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, list, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "list reset", "old_list_id", stale.ID, "list_id", detail.ID)
	return detail, nil
}

// continueList edits the list in place and, when items are given,
// reconciles them against the stored ones keeping every claim.
func (s *ListService) continueList(ctx context.Context, userID uuid.UUID, stale *db_models.List, request request_models.EditListRequest) (*response_models.ListDetail, error) {
	var specs []request_models.ItemSpec
	if request.Items != nil {
		specs = request.Items
		if _, err := defsFromSpecs(specs); err != nil {
			return nil, err
		}
	}

	var detail *response_models.ListDetail
	err := s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		list, err := lockList(ctx, tx, userID, stale.ID)
		if err != nil {
			return err
		}
		if err := checkOwner(list, userID); err != nil {
			return err
		}

		if request.Location != nil {
			list.Location = strings.TrimSpace(*request.Location)
		}
		if request.Description != nil {
			list.Description = request.Description
		}
		if request.EventDate != nil {
			list.EventDate = *request.EventDate
		}
		list.UpdatedBy = &userID

		if err := tx.Lists().Update(ctx, list); err != nil {
			return dbError("update list", err)
		}

		if request.Items != nil {
			if err := reconcileItems(ctx, tx, list.ID, specs); err != nil {
				return err
			}
		}

		detail, err = loadDetail(ctx, tx, list, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *ListService) ToggleStatus(ctx context.Context, userID, listID uuid.UUID) (*response_models.ListSummary, error) {
	list, err := s.store.Lists().FindByID(ctx, listID)
	if err != nil {
		return nil, dbError("find list", err)
	}
	if list == nil || list.UserID != userID {
		return nil, utils.NotFound("list not found")
	}

	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		locked, err := lockList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if locked == nil || locked.UserID != userID {
			return utils.NotFound("list not found")
		}
		list = locked

		if list.Status == db_models.ListStatusActive {
			list.Status = db_models.ListStatusArchived
		} else {
			limit, err := checkListLimit(ctx, tx, userID, s.now())
			if err != nil {
				return err
			}
			if !limit.Allowed {
				return limitError(limit, true)
			}
			list.Status = db_models.ListStatusActive
		}

		if err := tx.Lists().UpdateStatus(ctx, list.ID, list.Status); err != nil {
			return dbError("update list status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "list status toggled", "list_id", list.ID, "status", list.Status)
	summary := response_models.NewListSummary(list)
	return &summary, nil
}

func (s *ListService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, listID); err != nil {
		return err
	}

	if err := s.store.Lists().Delete(ctx, listID); err != nil {
		return dbError("delete list", err)
	}

	s.log.InfoContext(ctx, "list deleted", "list_id", listID)
	return nil
}

// GetPublicList serves guests, archived lists included.
func (s *ListService) GetPublicList(ctx context.Context, listID uuid.UUID) (*response_models.ListDetail, error) {
	list, err := s.store.Lists().FindByID(ctx, listID)
	if err != nil {
		return nil, dbError("find list", err)
	}
	if list == nil {
		return nil, utils.NotFound("list not found")
	}

	return loadDetail(ctx, s.store, list, true)
}

func (s *ListService) RegisterMember(ctx context.Context, listID uuid.UUID, request request_models.RegisterMemberRequest) (*response_models.ParcelResponse, error) {
	list, err := s.store.Lists().FindByID(ctx, listID)
	if err != nil {
		return nil, dbError("find list", err)
	}
	if list == nil {
		return nil, utils.NotFound("list not found")
	}

	now := s.now()
	if list.Status == db_models.ListStatusArchived {
		return nil, utils.BadRequest("this list is archived, registrations are closed")
	}
	if !now.Before(list.EventDate) {
		return nil, utils.BadRequest("this event has already happened, registrations are closed")
	}

	parcel, err := s.store.Items().FindParcel(ctx, listID, request.ItemID)
	if err != nil {
		return nil, dbError("find parcel", err)
	}
	if parcel == nil {
		return nil, utils.NotFound("item not found in this list")
	}
	if parcel.Claimed() {
		return nil, utils.Conflict("this item was already taken, choose another one")
	}

	name := strings.TrimSpace(request.Name)
	cpf := utils.NormalizeCPF(request.CPF)
	claimed, err := s.store.Items().ClaimParcel(ctx, parcel.ID, name, cpf, now)
	if err != nil {
		return nil, dbError("claim parcel", err)
	}
	if !claimed {
		return nil, utils.Conflict("this item was already taken, choose another one")
	}

	parcel.MemberName = &name
	parcel.MemberCPF = &cpf
	parcel.RegisteredAt = &now
	s.log.InfoContext(ctx, "parcel claimed", "list_id", listID, "parcel_id", parcel.ID)

	resp := response_models.NewParcelResponse(parcel, true)
	return &resp, nil
}

func (s *ListService) UnregisterMember(ctx context.Context, listID, parcelID uuid.UUID) error {
	list, err := s.store.Lists().FindByID(ctx, listID)
	if err != nil {
		return dbError("find list", err)
	}
	if list == nil {
		return utils.NotFound("list not found")
	}

	parcel, err := s.store.Items().FindParcel(ctx, listID, parcelID)
	if err != nil {
		return dbError("find parcel", err)
	}
	if parcel == nil {
		return utils.NotFound("item not found in this list")
	}

	released, err := s.store.Items().ReleaseParcel(ctx, parcel.ID)
	if err != nil {
		return dbError("release parcel", err)
	}
	if !released {
		return utils.BadRequest("item is not registered")
	}

	s.log.InfoContext(ctx, "parcel released", "list_id", listID, "parcel_id", parcelID)
	return nil
}
