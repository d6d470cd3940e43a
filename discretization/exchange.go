package discretization

import (
	"fmt"

	"github.com/notargets/gocfd-heat/utils"
)

// InterVolumeData pairs base volume fields on two volumes to be exchanged
// across every connection between them
type InterVolumeData struct {
	VolumeA, VolumeB string
	DataA, DataB     Fields
}

// ExchangeKey addresses the trace pairs that live on To and carry data
// received from From
type ExchangeKey struct {
	From, To string
}

// InterVolumeTracePairs exchanges trace data across volume connections. For
// each connection the local trace of each side is posted to the other side,
// and the result holds, keyed by {From: remote, To: local}, pairs whose Int
// is the local trace and whose Ext is the remote trace reordered to match the
// local face points.
func (dc *Collection) InterVolumeTracePairs(data []InterVolumeData, tag CommTag) (
	result map[ExchangeKey][]VectorTracePair, err error) {
	type pending struct {
		key         ExchangeKey
		dd          DOFDesc
		local       Fields
		mailKey     utils.MailKey
		perm        utils.Index
		nComponents int
	}
	var (
		recvs []pending
	)
	// Validate everything before posting so a failure leaves no stale mail
	for _, d := range data {
		if len(d.DataA) != len(d.DataB) {
			return nil, fmt.Errorf("exchange %s <-> %s: %d and %d components",
				d.VolumeA, d.VolumeB, len(d.DataA), len(d.DataB))
		}
		if !dc.connected(d.VolumeA, d.VolumeB) {
			return nil, fmt.Errorf("exchange %s <-> %s: %w", d.VolumeA, d.VolumeB, ErrNoConnection)
		}
	}
	for _, d := range data {
		for _, conn := range dc.connections {
			var (
				volA, volB   = conn.volA, conn.volB
				tagA, tagB   = conn.tagA, conn.tagB
				permA, permB = conn.permA, conn.permB
				dataA, dataB = d.DataA, d.DataB
			)
			switch {
			case volA == d.VolumeA && volB == d.VolumeB:
			case volA == d.VolumeB && volB == d.VolumeA:
				dataA, dataB = dataB, dataA
			default:
				continue
			}
			ddA := VolumeDD(volA).Trace(tagA)
			ddB := VolumeDD(volB).Trace(tagB)
			trA := dc.ProjectFields(VolumeDD(volA), ddA, dataA)
			trB := dc.ProjectFields(VolumeDD(volB), ddB, dataB)
			keyAB := utils.MailKey{Tag: string(tag), From: ddA.String(), To: ddB.String()}
			keyBA := utils.MailKey{Tag: string(tag), From: ddB.String(), To: ddA.String()}
			dc.mail.PostMessage(keyAB, trA)
			dc.mail.PostMessage(keyBA, trB)
			recvs = append(recvs,
				pending{key: ExchangeKey{From: volA, To: volB}, dd: ddB, local: trB,
					mailKey: keyAB, perm: permB, nComponents: len(dataB)},
				pending{key: ExchangeKey{From: volB, To: volA}, dd: ddA, local: trA,
					mailKey: keyBA, perm: permA, nComponents: len(dataA)})
		}
	}
	result = make(map[ExchangeKey][]VectorTracePair)
	for _, r := range recvs {
		remote := dc.mail.ReceiveMessage(r.mailKey)
		ext := make(Fields, r.nComponents)
		for i, f := range remote {
			ext[i] = f.SubsetVector(r.perm).ToMatrix()
		}
		tp := NewVectorTracePair(r.dd, r.local, ext)
		tp.Tag = tag
		result[r.key] = append(result[r.key], tp)
	}
	return
}

func (dc *Collection) connected(volA, volB string) bool {
	for _, conn := range dc.connections {
		if (conn.volA == volA && conn.volB == volB) || (conn.volA == volB && conn.volB == volA) {
			return true
		}
	}
	return false
}
