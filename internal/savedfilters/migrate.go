package savedfilters

import "github.com/smartworkmark/seo-content-portal/internal/model"

// step upgrades stores whose version is at or below version. apply reports
// whether it changed anything.
type step struct {
	version int
	apply   func(st *model.SavedFiltersStore) bool
}

// steps run in order on every load.
var steps = []step{
	{version: 1, apply: retireAllRange},
}

// migrate runs the applicable steps and raises older stores to
// CurrentVersion. It reports whether the store needs to be written back.
func migrate(st *model.SavedFiltersStore) bool {
	changed := false
	for _, s := range steps {
		if st.Version > s.version {
			continue
		}
		if s.apply(st) {
			changed = true
		}
	}
	if st.Version < CurrentVersion {
		st.Version = CurrentVersion
		changed = true
	}
	return changed
}

// retireAllRange rewrites the unbounded "all" range, which is no longer
// offered, to the widest bounded one.
func retireAllRange(st *model.SavedFiltersStore) bool {
	changed := false
	for i := range st.Filters {
		if st.Filters[i].DateRange == model.RangeAllLegacy {
			st.Filters[i].DateRange = model.Range90d
			changed = true
		}
	}
	return changed
}
