package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-fieldprop/pkg/report"
)

// commit writes every document with pending insertions. Each document is
// re-read first; a document that no longer matches its planning snapshot is
// skipped with ErrPartialCommitHazard and, in strict mode, so are all the
// documents after it.
func (o *Orchestrator) commit(ctx context.Context, rep *report.Report, p *plan, log *zap.Logger) error {
	byDocument := make(map[string][]*insertion)
	var documents []string
	for _, ins := range p.insertions {
		if _, ok := byDocument[ins.document]; !ok {
			documents = append(documents, ins.document)
		}
		byDocument[ins.document] = append(byDocument[ins.document], ins)
	}
	sort.Strings(documents)

	var halted error
	for _, id := range documents {
		pending := byDocument[id]
		if halted != nil {
			for _, ins := range pending {
				abort(&rep.Entries[ins.entry], halted)
			}
			continue
		}

		current, err := o.store.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("orchestrator: reload %s: %w", id, err)
		}
		if current != p.snapshots[id] {
			hazard := fmt.Errorf("%w: %s changed since planning", ErrPartialCommitHazard, id)
			for _, ins := range pending {
				abort(&rep.Entries[ins.entry], hazard)
			}
			log.Warn("document changed since planning", zap.String("document", id))
			if rep.Mode == ModeStrict {
				halted = fmt.Errorf("%w: commit halted at %s", ErrPartialCommitHazard, id)
			}
			continue
		}

		if err := o.store.Save(ctx, id, splice(current, pending)); err != nil {
			return fmt.Errorf("orchestrator: save %s: %w", id, err)
		}
		for _, ins := range pending {
			rep.Entries[ins.entry].Outcome = report.Applied
		}
		log.Info("document updated", zap.String("document", id), zap.Int("insertions", len(pending)))
	}
	return nil
}

// splice inserts fragments into src, rightmost offset first so the planned
// offsets stay valid. Fragments sharing an offset are joined by site order,
// catalog position and batch position, except that a chained fragment
// directly follows the one it is chained after. A fragment landing after a
// line without a trailing newline gets one.
func splice(src string, pending []*insertion) string {
	sorted := append([]*insertion(nil), pending...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.position != b.position {
			return a.position > b.position
		}
		if a.order != b.order {
			return a.order < b.order
		}
		if a.siteIndex != b.siteIndex {
			return a.siteIndex < b.siteIndex
		}
		return a.fieldIndex < b.fieldIndex
	})

	out := src
	for i := 0; i < len(sorted); {
		position := sorted[i].position
		var group strings.Builder
		if position > 0 && src[position-1] != '\n' {
			group.WriteByte('\n')
		}
		j := i
		for j < len(sorted) && sorted[j].position == position {
			j++
		}
		for _, ins := range chainOrder(sorted[i:j]) {
			group.WriteString(ins.fragment)
		}
		out = out[:position] + group.String() + out[position:]
		i = j
	}
	return out
}

// chainOrder places every chained insertion right after its parent, keeping
// the incoming order among siblings and among unchained insertions.
func chainOrder(group []*insertion) []*insertion {
	inGroup := make(map[*insertion]bool, len(group))
	for _, ins := range group {
		inGroup[ins] = true
	}
	children := make(map[*insertion][]*insertion)
	var roots []*insertion
	for _, ins := range group {
		if ins.parent != nil && inGroup[ins.parent] {
			children[ins.parent] = append(children[ins.parent], ins)
			continue
		}
		roots = append(roots, ins)
	}

	out := make([]*insertion, 0, len(group))
	var visit func(*insertion)
	visit = func(ins *insertion) {
		out = append(out, ins)
		for _, child := range children[ins] {
			visit(child)
		}
	}
	for _, ins := range roots {
		visit(ins)
	}
	return out
}
