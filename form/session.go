// Package form drives an editing session: every committed edit produces a
// new document value, re-runs validation and recomputes the fingerprint
// before the edit becomes visible.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/group"
	"github.com/boilerrat/grant-attestoor/model"
	"github.com/boilerrat/grant-attestoor/submit"
)

// Session holds one application being edited.
//
// A Session is safe for concurrent use. Commits are serialized; a snapshot
// always pairs a document with the errors and fingerprint derived from that
// same document. A failing edit leaves the session unchanged.
type Session struct {
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	derived  Derived
	orders   map[string]group.Order
	revision uint64
}

// NewSession starts a session on application.New().
func NewSession(opts Options) (*Session, error) {
	return Open(application.New(), opts)
}

// Open starts a session on a copy of doc.
func Open(doc application.Document, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	d, err := Derive(doc, opts)
	if err != nil {
		return nil, err
	}
	s := &Session{
		opts:    opts,
		log:     opts.Logger,
		derived: d,
		orders:  ordersFor(d.Document),
	}
	return s, nil
}

// SetScalar replaces one text field or acceptance flag.
func (s *Session) SetScalar(field string, value any) error {
	return s.commit("set", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		return application.SetScalar(doc, field, value)
	})
}

// AppendRecord adds a blank record to the end of a group and returns its ID.
func (s *Session) AppendRecord(name string) (group.ID, error) {
	var id group.ID
	err := s.commit("append", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		out, err := editGroup(doc, name, groupOp{kind: opAppend})
		if err != nil {
			return doc, err
		}
		orders[name], id = orders[name].Append()
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveRecord removes the record at index; later records shift down.
func (s *Session) RemoveRecord(name string, index int) error {
	return s.commit("remove", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		return removeAt(doc, orders, name, index)
	})
}

// RemoveRecordByID removes the record identified by id, wherever it
// currently sits.
func (s *Session) RemoveRecordByID(name string, id group.ID) error {
	return s.commit("remove", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		index, err := indexOf(orders, name, id)
		if err != nil {
			return doc, err
		}
		return removeAt(doc, orders, name, index)
	})
}

// UpdateRecord sets one field of the record at index.
func (s *Session) UpdateRecord(name string, index int, field, value string) error {
	return s.commit("update", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		return editGroup(doc, name, groupOp{kind: opUpdate, index: index, field: field, value: value})
	})
}

// UpdateRecordByID sets one field of the record identified by id. An edit
// keyed this way never lands on a record that shifted into id's old
// position.
func (s *Session) UpdateRecordByID(name string, id group.ID, field, value string) error {
	return s.commit("update", func(doc application.Document, orders map[string]group.Order) (application.Document, error) {
		index, err := indexOf(orders, name, id)
		if err != nil {
			return doc, err
		}
		return editGroup(doc, name, groupOp{kind: opUpdate, index: index, field: field, value: value})
	})
}

// Replace swaps in a whole document, for example one loaded from a file.
// Every record receives a new ID.
func (s *Session) Replace(doc application.Document) error {
	return s.commit("replace", func(_ application.Document, orders map[string]group.Order) (application.Document, error) {
		for g, o := range ordersFor(doc) {
			orders[g] = o
		}
		return doc.Clone(), nil
	})
}

// Snapshot returns the current state. The result shares no storage with the
// session.
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.derived.Snapshot()
	snap.RecordIDs = make(map[string][]string, len(s.orders))
	for g, o := range s.orders {
		ids := o.IDs()
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = string(id)
		}
		snap.RecordIDs[g] = out
	}
	return snap
}

// Derived returns the current document and everything derived from it.
func (s *Session) Derived() Derived {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.derived
	d.Document = d.Document.Clone()
	d.Canonical = append([]byte(nil), d.Canonical...)
	return d
}

// Revision counts the commits applied since the session was opened.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Submit hands the current document to sub. It fails with a NOT_SUBMITTABLE
// coded error, without calling sub, while any field carries an error.
//
// The submission is taken from a single commit; edits made while sub runs
// do not affect it.
func (s *Session) Submit(ctx context.Context, sub submit.Submitter) error {
	s.mu.Lock()
	d := s.derived
	rev := s.revision
	s.mu.Unlock()

	if !d.Submittable() {
		fields := d.Result.Errors.Fields()
		s.log.Warn("submission rejected",
			zap.Uint64("revision", rev),
			zap.Strings("fields", fields),
		)
		return model.NewError(model.ErrNotSubmittable,
			fmt.Sprintf("%d field(s) need attention: %s", len(fields), strings.Join(fields, ", ")))
	}
	if sub == nil {
		return model.NewError(model.ErrInternal, "nil submitter")
	}
	payload := d.Submission()
	if err := sub.Submit(ctx, payload); err != nil {
		return fmt.Errorf("submit revision %d: %w", rev, err)
	}
	s.log.Info("submission accepted",
		zap.Uint64("revision", rev),
		zap.String("fingerprint", payload.Fingerprint),
	)
	return nil
}

type editFunc func(doc application.Document, orders map[string]group.Order) (application.Document, error)

// commit applies edit to the current document and publishes the result only
// if the edit and the recomputation both succeed.
func (s *Session) commit(op string, edit editFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := cloneOrders(s.orders)
	doc, err := edit(s.derived.Document, orders)
	if err != nil {
		s.log.Debug("edit rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	d, err := Derive(doc, s.opts)
	if err != nil {
		s.log.Debug("edit rejected", zap.String("op", op), zap.Error(err))
		return err
	}

	s.derived = d
	s.orders = orders
	s.revision++
	s.log.Debug("edit committed",
		zap.String("op", op),
		zap.Uint64("revision", s.revision),
		zap.String("fingerprint", d.Fingerprint.String()),
		zap.Bool("submittable", d.Submittable()),
	)
	return nil
}

func indexOf(orders map[string]group.Order, name string, id group.ID) (int, error) {
	if !application.IsGroup(name) {
		return -1, application.InvalidField(name)
	}
	index := orders[name].IndexOf(id)
	if index < 0 {
		return -1, application.NewError(application.KindIndexOutOfRange, "GRANT-INDEX-002", fmt.Sprintf("no record %q in %s", id, name))
	}
	return index, nil
}

func removeAt(doc application.Document, orders map[string]group.Order, name string, index int) (application.Document, error) {
	out, err := editGroup(doc, name, groupOp{kind: opRemove, index: index})
	if err != nil {
		return doc, err
	}
	o, err := orders[name].RemoveAt(index)
	if err != nil {
		return doc, err
	}
	orders[name] = o
	return out, nil
}
