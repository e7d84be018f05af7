package services

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
)

// parcelTolerance keeps decimal portions such as 0.1 kg from producing an
// extra parcel out of floating point error.
const parcelTolerance = 1e-9

const (
	// maxParcelsPerItem caps ceil(total/portion) for a single item.
	maxParcelsPerItem = 500
	// maxPortionSize is the largest value portion_size NUMERIC(12,3) holds.
	maxPortionSize = 999_999_999.999
)

// ParcelCount is ceil(total/portion), at least 1 for any positive total.
func ParcelCount(total, portion float64) int {
	n := int(math.Ceil(total/portion - parcelTolerance))
	if n < 1 {
		return 1
	}
	return n
}

// roundPortion matches the numeric(12,3) column so a repeated edit compares
// equal to what was stored.
func roundPortion(p float64) float64 {
	return math.Round(p*1000) / 1000
}

func samePortion(a, b float64) bool {
	return math.Abs(a-b) < parcelTolerance
}

func newParcels(itemID, listID uuid.UUID, from, n int) []db_models.Parcel {
	parcels := make([]db_models.Parcel, 0, n)
	for i := 0; i < n; i++ {
		parcels = append(parcels, db_models.Parcel{
			ItemID:   itemID,
			ListID:   listID,
			Position: from + i,
		})
	}
	return parcels
}

func claimedCount(item *db_models.Item) int {
	n := 0
	for i := range item.Parcels {
		if item.Parcels[i].Claimed() {
			n++
		}
	}
	return n
}

func nextParcelPosition(item *db_models.Item) int {
	next := 0
	for i := range item.Parcels {
		if item.Parcels[i].Position >= next {
			next = item.Parcels[i].Position + 1
		}
	}
	return next
}

func nextItemPosition(items []db_models.Item) int {
	next := 0
	for i := range items {
		if items[i].Position >= next {
			next = items[i].Position + 1
		}
	}
	return next
}

// surplusParcels picks n unclaimed parcels, highest position first.
func surplusParcels(item *db_models.Item, n int) []uuid.UUID {
	free := make([]db_models.Parcel, 0, len(item.Parcels))
	for _, p := range item.Parcels {
		if !p.Claimed() {
			free = append(free, p)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Position > free[j].Position })

	if n > len(free) {
		n = len(free)
	}
	ids := make([]uuid.UUID, 0, n)
	for _, p := range free[:n] {
		ids = append(ids, p.ID)
	}
	return ids
}

func parcelIDs(item *db_models.Item) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(item.Parcels))
	for _, p := range item.Parcels {
		ids = append(ids, p.ID)
	}
	return ids
}
