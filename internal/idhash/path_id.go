package idhash

import (
	"crypto/sha256"
	"strings"

	"github.com/mr-tron/base58"

	"sleeper-trade-lab/internal/domain"
)

// pathIDBytes is the number of hash bytes kept in a path id.
const pathIDBytes = 12

// ComputePathID computes a short deterministic id for a lineage path.
// Formula: base58(SHA256(root|tx1:asset1|tx2:asset2|...)[:12])
func ComputePathID(rootAssetID string, edges []domain.TradeEdge) string {
	var sb strings.Builder
	sb.WriteString(rootAssetID)
	for _, e := range edges {
		sb.WriteByte('|')
		sb.WriteString(e.TransactionID)
		sb.WriteByte(':')
		sb.WriteString(e.AssetID)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return base58.Encode(hash[:pathIDBytes])
}
