package idhash

import (
	"testing"

	"sleeper-trade-lab/internal/domain"
)

func TestComputePathID(t *testing.T) {
	edges := []domain.TradeEdge{
		{TransactionID: "T1", AssetID: "P"},
		{TransactionID: "T2", AssetID: "pick_2025_r1_o1"},
	}

	got := ComputePathID("P", edges)
	if got == "" {
		t.Fatal("ComputePathID() returned empty id")
	}
	if got != ComputePathID("P", edges) {
		t.Error("ComputePathID() not deterministic")
	}

	if got == ComputePathID("Q", edges) {
		t.Error("different root should produce different id")
	}
	if got == ComputePathID("P", edges[:1]) {
		t.Error("different edge list should produce different id")
	}
}
