package usecases

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/pkg/logger"
)

// MergeResolver combines per-provider merchant location lists into one
// deduplicated list plus the provider-attribution rows that record which
// source contributed each canonical merchant.
type MergeResolver struct {
	registry *NameRegistry
	matcher  *LocationMatcher
}

func NewMergeResolver(registry *NameRegistry, matcher *LocationMatcher) *MergeResolver {
	return &MergeResolver{registry: registry, matcher: matcher}
}

// MergeResult is the resolver output: the combined location list and the
// attribution rows, in deterministic order.
type MergeResult struct {
	Locations []entities.MerchantLocation
	Providers []entities.GiftCardProvider
	// Matches keeps every accepted pairing for the audit table.
	Matches []entities.MatchInfo
}

// Combine merges the candidate list into the reference list. The reference
// list wins identity on every match: its merchant id and canonical name
// carry over to the merged record, while fields the reference leaves blank
// are filled from the candidate. Attribution rows are emitted for both
// sides of every merge and for every unmatched record.
//
// Degenerate inputs short-circuit: with no lists the result is empty, and
// with a single list every record is canonicalized and attributed without
// any matching.
func (r *MergeResolver) Combine(ctx context.Context, reference, candidates []entities.MerchantLocation) MergeResult {
	log := logger.WithContext(ctx)

	if len(reference) == 0 && len(candidates) == 0 {
		return MergeResult{}
	}
	if len(candidates) == 0 {
		return r.passThrough(reference)
	}
	if len(reference) == 0 {
		return r.passThrough(candidates)
	}

	matches := r.matcher.Match(ctx, candidates, reference)

	matchedCandidates := make(map[int]bool, len(matches))
	matchedReferences := make(map[int]bool, len(matches))
	// When several candidates hit one reference, only the highest-confidence
	// candidate merges in. The losers already cleared the confidence floor,
	// so they are near-duplicates of the winner and are dropped rather than
	// re-emitted.
	bestForReference := make(map[int]entities.MatchInfo, len(matches))
	for _, mi := range matches {
		matchedCandidates[mi.CandidateIndex] = true
		matchedReferences[mi.ReferenceIndex] = true
		if prev, ok := bestForReference[mi.ReferenceIndex]; !ok || mi.Confidence > prev.Confidence {
			bestForReference[mi.ReferenceIndex] = mi
		}
	}

	providers := newProviderSet()
	merged := make([]entities.MerchantLocation, 0, len(reference)+len(candidates))

	// Pass 1: matched references, merged with their best candidate.
	for i := range reference {
		mi, ok := bestForReference[i]
		if !ok {
			continue
		}
		row := r.mergeLocations(&reference[i], &candidates[mi.CandidateIndex])
		merged = append(merged, row)
		providers.add(r.attribution(&row, &reference[i]))
		providers.add(r.attribution(&row, &candidates[mi.CandidateIndex]))
	}

	// Pass 2: references nothing matched.
	for i := range reference {
		if matchedReferences[i] {
			continue
		}
		row := r.canonicalize(&reference[i])
		merged = append(merged, row)
		providers.add(r.attribution(&row, &reference[i]))
	}

	// Pass 3: leftover candidates. Online records carry no coordinates, so
	// the matcher never pairs two sources listing the same online merchant;
	// those collide by normalized name and fold into the existing online
	// record instead. Physical leftovers always come through as new records:
	// a shared chain name does not make two storefronts the same place.
	for i := range candidates {
		if matchedCandidates[i] {
			continue
		}
		cand := &candidates[i]

		if cand.Type == entities.LocationTypeOnline {
			canonical := r.registry.CanonicalName(cand.Name)
			foldedAt := -1
			for j := range merged {
				if merged[j].Type != entities.LocationTypeOnline {
					continue
				}
				if !strings.EqualFold(merged[j].Name, canonical) {
					continue
				}
				foldedAt = j
				break
			}
			if foldedAt >= 0 {
				existing := merged[foldedAt]
				merged[foldedAt] = r.mergeLocations(&existing, cand)
				providers.add(r.attribution(&merged[foldedAt], cand))
				continue
			}
		}

		row := r.canonicalize(cand)
		merged = append(merged, row)
		providers.add(r.attribution(&row, cand))
	}

	deduped := dedupeLocations(merged)
	log.Info("merchant lists combined",
		zap.Int("reference", len(reference)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
		zap.Int("merged", len(merged)),
		zap.Int("deduped", len(deduped)),
		zap.Int("providers", providers.len()))

	return MergeResult{Locations: deduped, Providers: providers.ordered(), Matches: matches}
}

// CombineAll folds Combine across the lists left to right, so earlier lists
// win identity over later ones. Attribution rows are unioned across folds;
// a record re-attributed on a later fold does not produce a second row.
func (r *MergeResolver) CombineAll(ctx context.Context, lists ...[]entities.MerchantLocation) MergeResult {
	if len(lists) == 0 {
		return MergeResult{}
	}
	providers := newProviderSet()
	acc := r.Combine(ctx, lists[0], nil)
	for _, p := range acc.Providers {
		providers.add(p)
	}
	matches := acc.Matches
	for _, next := range lists[1:] {
		step := r.Combine(ctx, acc.Locations, next)
		acc.Locations = step.Locations
		for _, p := range step.Providers {
			providers.add(p)
		}
		matches = append(matches, step.Matches...)
	}
	return MergeResult{Locations: acc.Locations, Providers: providers.ordered(), Matches: matches}
}

// passThrough canonicalizes a single list and emits one attribution row per
// record, without matching.
func (r *MergeResolver) passThrough(list []entities.MerchantLocation) MergeResult {
	providers := newProviderSet()
	out := make([]entities.MerchantLocation, 0, len(list))
	for i := range list {
		row := r.canonicalize(&list[i])
		out = append(out, row)
		providers.add(r.attribution(&row, &list[i]))
	}
	return MergeResult{Locations: dedupeLocations(out), Providers: providers.ordered()}
}

// canonicalize rewrites a record with its registry-canonical name, logo,
// and stable merchant id.
func (r *MergeResolver) canonicalize(loc *entities.MerchantLocation) entities.MerchantLocation {
	row := loc.Clone()
	row.Name = r.registry.CanonicalName(loc.Name)
	row.MerchantID = r.registry.StableID(row.Name)
	if logo := r.registry.Logo(row.Name); logo != "" {
		row.LogoLocation = logo
	}
	return row
}

// mergeLocations folds the candidate into the reference. Reference identity
// wins; blank reference fields take the candidate's value; savings
// percentage takes the higher offer.
func (r *MergeResolver) mergeLocations(ref, cand *entities.MerchantLocation) entities.MerchantLocation {
	row := r.canonicalize(ref)
	row.Merged = true

	if row.Address1 == "" {
		row.Address1 = cand.Address1
	}
	if row.Address2 == "" {
		row.Address2 = cand.Address2
	}
	if row.City == "" {
		row.City = cand.City
	}
	if row.Territory == "" {
		row.Territory = cand.Territory
	}
	if row.Phone == "" {
		row.Phone = cand.Phone
	}
	if row.Website == "" {
		row.Website = cand.Website
	}
	if row.LogoLocation == "" {
		row.LogoLocation = cand.LogoLocation
	}
	if row.CoverImage == "" {
		row.CoverImage = cand.CoverImage
	}
	if !row.HasCoordinates() && cand.HasCoordinates() {
		row.Latitude = cand.Latitude
		row.Longitude = cand.Longitude
	}
	if row.PaymentMeth == "" {
		row.PaymentMeth = cand.PaymentMeth
	}
	if !row.Deeplink.Valid {
		row.Deeplink = cand.Deeplink
	}
	if cand.SavingsPercentage.Valid &&
		(!row.SavingsPercentage.Valid || cand.SavingsPercentage.Int > row.SavingsPercentage.Int) {
		row.SavingsPercentage = cand.SavingsPercentage
	}
	if row.Schedule == (entities.WeekSchedule{}) {
		row.Schedule = cand.Schedule
	}
	return row
}

// attribution builds the provider row linking a source record to the
// canonical merchant it ended up under. The merchant id is the canonical
// one; the source id and the redemption metadata stay whatever the
// contributing provider reported, merging never rewrites them.
func (r *MergeResolver) attribution(canonical *entities.MerchantLocation, source *entities.MerchantLocation) entities.GiftCardProvider {
	return entities.GiftCardProvider{
		MerchantID:        canonical.MerchantID,
		Provider:          source.Source,
		SourceID:          source.SourceID,
		Active:            source.Active,
		RedeemType:        source.RedeemType,
		SavingsPercentage: source.SavingsPercentage,
		DenominationsType: source.DenominationsType,
	}
}

// dedupeLocations drops exact duplicates by normalized name, coordinates
// truncated to four decimals, and location type. Records without
// coordinates share a single "null" coordinate component, so same-name
// online records collapse to one row.
func dedupeLocations(list []entities.MerchantLocation) []entities.MerchantLocation {
	seen := make(map[string]bool, len(list))
	out := make([]entities.MerchantLocation, 0, len(list))
	for i := range list {
		loc := &list[i]
		lat, lon := "null", "null"
		if loc.Latitude.Valid {
			lat = fmt.Sprintf("%.4f", loc.Latitude.Float64)
		}
		if loc.Longitude.Valid {
			lon = fmt.Sprintf("%.4f", loc.Longitude.Float64)
		}
		key := strings.ToLower(strings.TrimSpace(loc.Name)) + "|" + lat + "|" + lon + "|" + string(loc.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, *loc)
	}
	return out
}

// providerSet deduplicates attribution rows by merchant+provider while
// preserving first-insertion order.
type providerSet struct {
	seen  map[string]bool
	order []entities.GiftCardProvider
}

func newProviderSet() *providerSet {
	return &providerSet{seen: make(map[string]bool)}
}

func (s *providerSet) add(p entities.GiftCardProvider) {
	k := p.Key()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.order = append(s.order, p)
}

func (s *providerSet) len() int { return len(s.order) }

func (s *providerSet) ordered() []entities.GiftCardProvider {
	return s.order
}
