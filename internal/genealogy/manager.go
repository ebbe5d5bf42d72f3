package genealogy

import (
	"sort"
	"time"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/tradegraph"
)

// Acquisition types.
const (
	AcquiredDraft     = "draft"
	AcquiredTrade     = "trade"
	AcquiredWaiver    = "waiver"
	AcquiredFreeAgent = "free_agent"
	AcquiredUnknown   = "unknown"
)

// Disposal types.
const (
	DisposedTrade = "trade"
	DisposedDrop  = "drop"
	StillOwned    = "still_owned"
)

// Acquisition is how a roster came to hold an asset.
type Acquisition struct {
	Type          string
	TransactionID string
	Time          time.Time
	Steps         []OwnershipStep // trade movements into the roster
}

// Disposal is how the roster let the asset go.
type Disposal struct {
	Type          string
	TransactionID string
	Time          time.Time
	Received      []string // assets received in a disposing trade
}

// OwnershipPeriod is the interval the roster held the asset.
type OwnershipPeriod struct {
	Start time.Time
	End   *time.Time
	Days  int
}

// ManagerTrace describes an asset's life with one roster.
type ManagerTrace struct {
	AssetID         string
	AssetName       string
	RosterID        int
	RosterName      string
	Acquisition     Acquisition
	Disposal        Disposal
	Transformations *domain.Genealogy // nil unless traded away
	Period          OwnershipPeriod
}

type movement struct {
	kind string
	txID string
	when time.Time
	edge *domain.TradeEdge
}

// ManagerAssetTrace explains how roster acquired assetID, how it left, and
// what it became afterwards. now closes the ownership period of a held asset.
func (t *Tracer) ManagerAssetTrace(g *tradegraph.Graph, rosterID int, assetID string, now time.Time) (*ManagerTrace, error) {
	node, ok := g.Node(assetID)
	out := &ManagerTrace{
		AssetID:    assetID,
		RosterID:   rosterID,
		RosterName: g.RosterName(rosterID),
	}
	if ok {
		out.AssetName = node.Name
	} else if p, known := g.Players[assetID]; known {
		out.AssetName = p.Name()
	} else if !hasRecord(g, assetID) {
		return nil, ErrAssetNotFound
	}

	ins, outs := movements(g, rosterID, assetID)

	acq := Acquisition{Type: AcquiredUnknown}
	if len(ins) > 0 {
		first := ins[0]
		acq = Acquisition{Type: first.kind, TransactionID: first.txID, Time: first.when}
		if first.edge != nil {
			for _, s := range Steps(g, assetID) {
				if s.TransactionID == first.txID {
					acq.Steps = append(acq.Steps, s)
				}
			}
		}
	}
	out.Acquisition = acq

	disp := Disposal{Type: StillOwned}
	for _, m := range outs {
		if !acq.Time.IsZero() && !m.when.IsZero() && m.when.Before(acq.Time) {
			continue
		}
		disp = Disposal{Type: m.kind, TransactionID: m.txID, Time: m.when}
		if m.kind == DisposedTrade {
			for _, e := range g.EdgesForTransaction(m.txID) {
				if e.ToRosterID == rosterID && e.AssetID != assetID {
					disp.Received = append(disp.Received, e.AssetID)
				}
			}
			if ok {
				gen, err := t.Trace(g, assetID, rosterID)
				if err == nil {
					out.Transformations = gen
				}
			}
		}
		break
	}
	out.Disposal = disp

	out.Period = OwnershipPeriod{Start: acq.Time}
	end := now
	if disp.Type != StillOwned {
		end = disp.Time
		out.Period.End = &end
	}
	if !acq.Time.IsZero() && !end.IsZero() && end.After(acq.Time) {
		out.Period.Days = int(end.Sub(acq.Time) / (24 * time.Hour))
	}
	return out, nil
}

func hasRecord(g *tradegraph.Graph, assetID string) bool {
	for i := range g.Records {
		if g.Records[i].Involves(assetID) {
			return true
		}
	}
	for _, p := range g.Picks {
		if p.PlayerID == assetID {
			return true
		}
	}
	return false
}

// movements lists acquisitions by and departures from the roster, ordered by
// effective time. Drafts take the draft start; untimestamped moves sort last.
func movements(g *tradegraph.Graph, rosterID int, assetID string) (ins, outs []movement) {
	draftStart := make(map[string]time.Time, len(g.Drafts))
	for _, d := range g.Drafts {
		draftStart[d.DraftID] = d.EffectiveStart()
	}
	for _, p := range g.Picks {
		if p.PlayerID == assetID && p.RosterID == rosterID {
			ins = append(ins, movement{kind: AcquiredDraft, when: draftStart[p.DraftID]})
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		if e.AssetID != assetID {
			continue
		}
		when := time.Time{}
		if e.Timestamp > 0 {
			when = time.UnixMilli(e.Timestamp).UTC()
		}
		switch rosterID {
		case e.ToRosterID:
			ins = append(ins, movement{kind: AcquiredTrade, txID: e.TransactionID, when: when, edge: e})
		case e.FromRosterID:
			outs = append(outs, movement{kind: DisposedTrade, txID: e.TransactionID, when: when, edge: e})
		}
	}

	for i := range g.Records {
		tx := &g.Records[i]
		if tx.IsTrade() {
			continue
		}
		if to, ok := tx.Adds[assetID]; ok && to == rosterID {
			ins = append(ins, movement{kind: acquisitionKind(tx.Type), txID: tx.TransactionID, when: tx.Time()})
		}
		if from, ok := tx.Drops[assetID]; ok && from == rosterID {
			outs = append(outs, movement{kind: DisposedDrop, txID: tx.TransactionID, when: tx.Time()})
		}
	}

	byTime := func(ms []movement) {
		sort.SliceStable(ms, func(i, j int) bool {
			a, b := ms[i].when, ms[j].when
			if a.IsZero() != b.IsZero() {
				return !a.IsZero()
			}
			return a.Before(b)
		})
	}
	byTime(ins)
	byTime(outs)
	return ins, outs
}

func acquisitionKind(t domain.TransactionType) string {
	switch t {
	case domain.TransactionTypeWaiver:
		return AcquiredWaiver
	case domain.TransactionTypeFreeAgent:
		return AcquiredFreeAgent
	}
	return AcquiredUnknown
}
