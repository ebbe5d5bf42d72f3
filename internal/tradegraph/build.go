package tradegraph

import (
	"fmt"
	"sort"

	"sleeper-trade-lab/internal/domain"
	"sleeper-trade-lab/internal/identity"
	"sleeper-trade-lab/internal/idhash"
)

// Input is everything a graph is built from.
type Input struct {
	LeagueID     string // root league
	Chain        domain.LeagueChain
	Transactions []domain.TransactionRecord // all types; only trades become edges
	Drafts       []domain.Draft
	Picks        []domain.DraftPick
	Players      map[string]domain.Player // nil when the directory was unavailable
	RosterNames  map[int]string
}

// FromData builds a graph without any upstream access.
//
// Trades are processed in ascending timestamp order with untimestamped
// trades last. Explicit pick movements on a trade are authoritative; pick
// references in adds and drops are only inferred when a trade carries none.
func FromData(in Input) *Graph {
	g := &Graph{
		TradeGraph: domain.NewTradeGraph(in.LeagueID),
		Chain:      in.Chain,
		Records:    retag(in.Transactions),
		Drafts:     in.Drafts,
		Picks:      in.Picks,
		Players:    in.Players,
		slots:      identity.NewDraftSlots(in.Drafts),
	}

	b := &graphBuilder{
		g:          g,
		classifier: identity.NewClassifier(in.Players),
		names:      in.RosterNames,
		unknown:    make(map[string]bool),
	}

	for _, tx := range sortedTrades(g.Records) {
		b.addTrade(tx)
	}
	for id := range b.unknown {
		g.Unknown = append(g.Unknown, id)
	}
	sort.Strings(g.Unknown)

	b.resolveOriginalOwners(in.Picks)
	b.enrichPicks(in.Picks)
	b.buildTimeline()
	b.labelRosters()

	g.index()
	return g
}

// retag prefixes transaction ids that occur in more than one league instance
// with their league id, so ids are unique across the chain.
func retag(txs []domain.TransactionRecord) []domain.TransactionRecord {
	leagues := make(map[string]map[string]bool)
	for _, tx := range txs {
		if leagues[tx.TransactionID] == nil {
			leagues[tx.TransactionID] = make(map[string]bool)
		}
		leagues[tx.TransactionID][tx.LeagueID] = true
	}

	out := make([]domain.TransactionRecord, len(txs))
	for i, tx := range txs {
		if len(leagues[tx.TransactionID]) > 1 {
			tx.TransactionID = tx.LeagueID + ":" + tx.TransactionID
		}
		out[i] = tx
	}
	return out
}

// sortedTrades returns completed trades ordered by timestamp, untimestamped last.
func sortedTrades(txs []domain.TransactionRecord) []*domain.TransactionRecord {
	var trades []*domain.TransactionRecord
	for i := range txs {
		tx := &txs[i]
		if !tx.IsTrade() {
			continue
		}
		if tx.Status != "" && tx.Status != domain.TransactionStatusComplete {
			continue
		}
		trades = append(trades, tx)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		a, b := trades[i], trades[j]
		if a.HasTimestamp() != b.HasTimestamp() {
			return a.HasTimestamp()
		}
		if a.StatusUpdated != b.StatusUpdated {
			return a.StatusUpdated < b.StatusUpdated
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.TransactionID < b.TransactionID
	})
	return trades
}

type graphBuilder struct {
	g          *Graph
	classifier *identity.Classifier
	names      map[int]string
	order      []*domain.TransactionSummary
	unknown    map[string]bool
}

func (b *graphBuilder) addTrade(tx *domain.TransactionRecord) {
	summary := &domain.TransactionSummary{
		TransactionID: tx.TransactionID,
		LeagueID:      tx.LeagueID,
		Season:        tx.Season,
		Week:          tx.Week,
		Type:          tx.Type,
		Timestamp:     tx.StatusUpdated,
		RosterIDs:     append([]int(nil), tx.RosterIDs...),
	}
	b.g.Transactions[tx.TransactionID] = summary
	b.order = append(b.order, summary)

	explicit := len(tx.DraftPicks) > 0
	if explicit {
		for _, mv := range tx.DraftPicks {
			b.addPickMovement(tx, summary, mv)
		}
	}

	for _, ref := range assetRefs(tx) {
		c := b.classifier.Classify(ref)
		if c.IsPick() {
			if explicit {
				b.aliasNegative(tx, c)
				continue
			}
			b.addInferredPick(tx, summary, c)
			continue
		}
		if c.Shape == identity.ShapeUnknown {
			b.unknown[c.AssetID] = true
		}
		b.addSwap(tx, summary, c)
	}
}

// assetRefs returns the union of add and drop keys in sorted order.
func assetRefs(tx *domain.TransactionRecord) []string {
	seen := make(map[string]bool, len(tx.Adds)+len(tx.Drops))
	refs := make([]string, 0, len(tx.Adds)+len(tx.Drops))
	for id := range tx.Adds {
		if !seen[id] {
			seen[id] = true
			refs = append(refs, id)
		}
	}
	for id := range tx.Drops {
		if !seen[id] {
			seen[id] = true
			refs = append(refs, id)
		}
	}
	sort.Strings(refs)
	return refs
}

func (b *graphBuilder) addPickMovement(tx *domain.TransactionRecord, s *domain.TransactionSummary, mv domain.DraftPickMovement) {
	if mv.PreviousOwnerID == 0 || mv.OwnerID == 0 || mv.PreviousOwnerID == mv.OwnerID {
		return
	}
	id := domain.PickIdentity{Season: mv.Season, Round: mv.Round, OriginalRosterID: mv.RosterID}
	node := b.pickNode(id)
	b.addEdge(tx, s, node, mv.PreviousOwnerID, mv.OwnerID, domain.EdgeContextPickMovement)
}

// aliasNegative links a negative reference to the explicit movement it
// stands for. An ambiguous reference is kept as an unresolved node without
// an edge, since the movement itself is already recorded.
func (b *graphBuilder) aliasNegative(tx *domain.TransactionRecord, c identity.Classification) {
	if c.Shape != identity.ShapeNegative {
		return
	}
	if id, ok := identity.ReconcileNegative(c.AssetID, tx); ok {
		node := b.pickNode(id)
		node.RawRefs = appendUnique(node.RawRefs, c.AssetID)
		return
	}
	b.unresolvedNode(tx, c)
}

func (b *graphBuilder) addInferredPick(tx *domain.TransactionRecord, s *domain.TransactionSummary, c identity.Classification) {
	from, to, ok := endpoints(c.AssetID, tx)
	if !ok {
		return
	}

	if c.Shape == identity.ShapeStructured {
		if id, ok := b.g.slots.Resolve(c); ok {
			node := b.pickNode(id)
			node.RawRefs = appendUnique(node.RawRefs, c.AssetID)
			b.addEdge(tx, s, node, from, to, domain.EdgeContextInferredPick)
			return
		}
	}

	node := b.unresolvedNode(tx, c)
	b.addEdge(tx, s, node, from, to, domain.EdgeContextUnresolvedRef)
}

func (b *graphBuilder) addSwap(tx *domain.TransactionRecord, s *domain.TransactionSummary, c identity.Classification) {
	from, hasFrom := tx.Drops[c.AssetID]
	to, hasTo := tx.Adds[c.AssetID]
	if !hasFrom || !hasTo || from == to || from == 0 || to == 0 {
		return
	}

	node, ok := b.g.Nodes[c.AssetID]
	if !ok {
		node = b.playerNode(c)
	}
	b.addEdge(tx, s, node, from, to, domain.EdgeContextPlayerSwap)
}

// endpoints pairs a reference's drop and add. With one side missing in a
// two-roster trade, the other roster is the counterpart.
func endpoints(ref string, tx *domain.TransactionRecord) (from, to int, ok bool) {
	from, hasFrom := tx.Drops[ref]
	to, hasTo := tx.Adds[ref]

	if !hasFrom && hasTo {
		from, hasFrom = otherRoster(tx.RosterIDs, to)
	}
	if hasFrom && !hasTo {
		to, hasTo = otherRoster(tx.RosterIDs, from)
	}
	if !hasFrom || !hasTo || from == to || from == 0 || to == 0 {
		return 0, 0, false
	}
	return from, to, true
}

func otherRoster(rosters []int, r int) (int, bool) {
	if len(rosters) != 2 {
		return 0, false
	}
	if rosters[0] == r {
		return rosters[1], true
	}
	if rosters[1] == r {
		return rosters[0], true
	}
	return 0, false
}

func (b *graphBuilder) addEdge(tx *domain.TransactionRecord, s *domain.TransactionSummary, node *domain.AssetNode, from, to int, ctx domain.EdgeContext) {
	b.g.Edges = append(b.g.Edges, domain.TradeEdge{
		TransactionID: tx.TransactionID,
		LeagueID:      tx.LeagueID,
		Season:        tx.Season,
		Timestamp:     tx.StatusUpdated,
		FromRosterID:  from,
		ToRosterID:    to,
		AssetID:       node.AssetID,
		Context:       ctx,
	})
	node.CurrentOwner = to
	s.AssetIDs = appendUnique(s.AssetIDs, node.AssetID)
}

func (b *graphBuilder) pickNode(id domain.PickIdentity) *domain.AssetNode {
	key := idhash.PickKey(id)
	if n, ok := b.g.Nodes[key]; ok {
		return n
	}
	n := &domain.AssetNode{
		AssetID:       key,
		Kind:          domain.AssetKindDraftPick,
		OriginalOwner: id.OriginalRosterID,
		Pick:          &domain.PickMetadata{Identity: id},
	}
	if slot, ok := b.g.slots.SlotOf(id); ok {
		n.Pick.DraftSlot = slot
	}
	b.g.Nodes[key] = n
	return n
}

func (b *graphBuilder) playerNode(c identity.Classification) *domain.AssetNode {
	n := &domain.AssetNode{AssetID: c.AssetID, Kind: c.Kind}
	if p, ok := b.classifier.Player(c.AssetID); ok {
		n.Name = p.Name()
		n.Player = &domain.PlayerMetadata{Position: p.Position, Team: p.Team, Age: p.Age}
	} else {
		n.Name = "Unknown asset " + c.AssetID
	}
	b.g.Nodes[c.AssetID] = n
	return n
}

// unresolvedNode keys structured references by their raw id. Negative
// references are transaction-scoped sentinels and are keyed per transaction.
func (b *graphBuilder) unresolvedNode(tx *domain.TransactionRecord, c identity.Classification) *domain.AssetNode {
	key := c.AssetID
	if c.Shape == identity.ShapeNegative {
		key = c.AssetID + "@" + tx.TransactionID
	}
	if n, ok := b.g.Nodes[key]; ok {
		return n
	}
	n := &domain.AssetNode{
		AssetID: key,
		Kind:    domain.AssetKindUnknown,
		Name:    "Unresolved pick " + c.AssetID,
		RawRefs: []string{c.AssetID},
	}
	b.g.Nodes[key] = n
	return n
}

// resolveOriginalOwners sets non-pick original owners. A player drafted no
// later than the season of their first edge belongs to the drafting roster;
// any other player to the from side of that edge. Pick owners come from the
// identity itself.
func (b *graphBuilder) resolveOriginalOwners(picks []domain.DraftPick) {
	drafted := make(map[string]domain.DraftPick, len(picks))
	for _, p := range picks {
		if p.PlayerID == "" || p.RosterID == 0 {
			continue
		}
		if prev, ok := drafted[p.PlayerID]; ok && prev.Season <= p.Season {
			continue
		}
		drafted[p.PlayerID] = p
	}

	for _, e := range b.g.Edges {
		n := b.g.Nodes[e.AssetID]
		if n.Kind == domain.AssetKindDraftPick || n.OriginalOwner != 0 {
			continue
		}
		n.OriginalOwner = e.FromRosterID
		if p, ok := drafted[e.AssetID]; ok && (e.Season == "" || p.Season <= e.Season) {
			n.OriginalOwner = p.RosterID
		}
	}
}

// enrichPicks attaches the draft selection made from each pick's slot.
func (b *graphBuilder) enrichPicks(picks []domain.DraftPick) {
	type slotKey struct {
		season string
		round  int
		slot   int
	}
	bySlot := make(map[slotKey]domain.DraftPick, len(picks))
	for _, p := range picks {
		bySlot[slotKey{p.Season, p.Round, p.DraftSlot}] = p
	}

	for _, n := range b.g.Nodes {
		if n.Kind != domain.AssetKindDraftPick || n.Pick == nil {
			continue
		}
		id := n.Pick.Identity
		n.Name = b.pickName(id)

		if n.Pick.DraftSlot == 0 {
			continue
		}
		p, ok := bySlot[slotKey{id.Season, id.Round, n.Pick.DraftSlot}]
		if !ok || p.PlayerID == "" {
			continue
		}
		n.Pick.Outcome = &domain.DraftOutcome{
			DraftID:          p.DraftID,
			PickNo:           p.PickNo,
			DraftSlot:        p.DraftSlot,
			PlayerID:         p.PlayerID,
			PlayerName:       b.selectionName(p),
			PickedByRosterID: p.RosterID,
		}
	}
}

func (b *graphBuilder) selectionName(p domain.DraftPick) string {
	if name := p.PlayerName(); name != "" {
		return name
	}
	if pl, ok := b.classifier.Player(p.PlayerID); ok {
		return pl.Name()
	}
	return "Player " + p.PlayerID
}

func (b *graphBuilder) pickName(id domain.PickIdentity) string {
	return fmt.Sprintf("%s Round %d (%s)", id.Season, id.Round, b.rosterName(id.OriginalRosterID))
}

func (b *graphBuilder) rosterName(id int) string {
	if name, ok := b.names[id]; ok && name != "" {
		return name
	}
	return domain.PlaceholderRosterName(id)
}

// buildTimeline lists timestamped trades in processing order. Untimestamped
// trades keep their edges but stay off the timeline.
func (b *graphBuilder) buildTimeline() {
	for _, s := range b.order {
		if s.Timestamp > 0 {
			b.g.Timeline = append(b.g.Timeline, s.TransactionID)
		}
	}
}

func (b *graphBuilder) labelRosters() {
	for id, name := range b.names {
		b.g.RosterNames[id] = name
	}
	for _, e := range b.g.Edges {
		for _, r := range []int{e.FromRosterID, e.ToRosterID} {
			if _, ok := b.g.RosterNames[r]; !ok {
				b.g.RosterNames[r] = domain.PlaceholderRosterName(r)
			}
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
