package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
	"colabora/internal/models/request_models"
	"colabora/internal/repositories"
	"colabora/pkg/utils"
)

type itemMatch struct {
	spec request_models.ItemSpec
	item *db_models.Item // nil for a new item
}

// matchItems pairs each spec with a stored item, by id when the spec has
// one and otherwise by the first unmatched item with the same name.
func matchItems(existing []db_models.Item, specs []request_models.ItemSpec) ([]itemMatch, []*db_models.Item, error) {
	byID := make(map[uuid.UUID]*db_models.Item, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}
	used := make(map[uuid.UUID]bool, len(existing))

	matches := make([]itemMatch, 0, len(specs))
	for _, spec := range specs {
		var match *db_models.Item
		if spec.ID != nil {
			item, ok := byID[*spec.ID]
			if !ok {
				return nil, nil, utils.NotFound("item %s not found in this list", *spec.ID)
			}
			if used[item.ID] {
				return nil, nil, utils.BadRequest("item %s appears more than once", *spec.ID)
			}
			match = item
		} else {
			name := strings.TrimSpace(spec.ItemName)
			for i := range existing {
				if !used[existing[i].ID] && existing[i].Name == name {
					match = &existing[i]
					break
				}
			}
		}
		if match != nil {
			used[match.ID] = true
		}
		matches = append(matches, itemMatch{spec: spec, item: match})
	}

	var removed []*db_models.Item
	for i := range existing {
		if !used[existing[i].ID] {
			removed = append(removed, &existing[i])
		}
	}
	return matches, removed, nil
}

func reconcileItems(ctx context.Context, tx repositories.Store, listID uuid.UUID, specs []request_models.ItemSpec) error {
	existing, err := tx.Items().ListByList(ctx, listID)
	if err != nil {
		return dbError("list items", err)
	}

	matches, removed, err := matchItems(existing, specs)
	if err != nil {
		return err
	}

	for _, item := range removed {
		if claimedCount(item) > 0 {
			return utils.Conflict("item %q has claimed parcels and cannot be removed", item.Name)
		}
	}
	for _, item := range removed {
		if err := deleteFreeParcels(ctx, tx, item, parcelIDs(item)); err != nil {
			return err
		}
		if err := tx.Items().Delete(ctx, item.ID); err != nil {
			return dbError("delete item", err)
		}
	}

	next := nextItemPosition(existing)
	for _, m := range matches {
		if m.item != nil {
			if err := reconcileItem(ctx, tx, listID, m.item, m.spec); err != nil {
				return err
			}
			continue
		}

		defs, err := defsFromSpecs([]request_models.ItemSpec{m.spec})
		if err != nil {
			return err
		}
		if err := createItems(ctx, tx, listID, defs, next); err != nil {
			return err
		}
		next++
	}
	return nil
}

func reconcileItem(ctx context.Context, tx repositories.Store, listID uuid.UUID, item *db_models.Item, spec request_models.ItemSpec) error {
	name := strings.TrimSpace(spec.ItemName)
	unit := strings.TrimSpace(spec.UnitType)
	portion := roundPortion(spec.QuantityPerPortion)
	target := ParcelCount(spec.QuantityTotal, portion)
	current := len(item.Parcels)
	definitionChanged := !samePortion(item.PortionSize, portion) || item.UnitType != unit

	if claimed := claimedCount(item); claimed > 0 {
		if definitionChanged {
			return utils.Conflict("item %q has claimed parcels, its portion size and unit cannot change", item.Name)
		}
		if item.Name != name {
			return utils.Conflict("item %q has claimed parcels and cannot be renamed", item.Name)
		}
		if target < claimed {
			return utils.Conflict("item %q has %d claimed parcels, it cannot be reduced to %d", item.Name, claimed, target)
		}

		switch {
		case target > current:
			parcels := newParcels(item.ID, listID, nextParcelPosition(item), target-current)
			if err := tx.Items().CreateParcels(ctx, parcels); err != nil {
				return dbError("create parcels", err)
			}
		case target < current:
			if err := deleteFreeParcels(ctx, tx, item, surplusParcels(item, current-target)); err != nil {
				return err
			}
		}
		return nil
	}

	if item.Name != name || definitionChanged {
		item.Name = name
		item.PortionSize = portion
		item.UnitType = unit
		if err := tx.Items().Update(ctx, item); err != nil {
			return dbError("update item", err)
		}
	}

	if target == current && !definitionChanged {
		return nil
	}

	if err := deleteFreeParcels(ctx, tx, item, parcelIDs(item)); err != nil {
		return err
	}
	if err := tx.Items().CreateParcels(ctx, newParcels(item.ID, listID, 0, target)); err != nil {
		return dbError("create parcels", err)
	}
	return nil
}

// deleteFreeParcels deletes parcels that were free when the item was read.
// A guest may claim one in between, in which case the whole edit is
// refused rather than dropping the claim.
func deleteFreeParcels(ctx context.Context, tx repositories.Store, item *db_models.Item, ids []uuid.UUID) error {
	deleted, err := tx.Items().DeleteFreeParcels(ctx, ids)
	if err != nil {
		return dbError("delete parcels", err)
	}
	if deleted != int64(len(ids)) {
		return utils.Conflict("item %q had a parcel claimed during the edit, reload the list and try again", item.Name)
	}
	return nil
}
