package form

import (
	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/group"
)

type opKind int

const (
	opAppend opKind = iota
	opRemove
	opUpdate
)

// groupOp is one positional edit of a repeating group.
type groupOp struct {
	kind  opKind
	index int
	field string
	value string
}

func applyOp[R group.Record[R]](records []R, op groupOp) ([]R, error) {
	switch op.kind {
	case opAppend:
		var blank R
		return group.Append(records, blank), nil
	case opRemove:
		return group.RemoveAt(records, op.index)
	default:
		return group.UpdateField(records, op.index, op.field, op.value)
	}
}

// editGroup returns a copy of doc with op applied to the named group. doc's
// slices are never written.
func editGroup(doc application.Document, name string, op groupOp) (application.Document, error) {
	out := doc
	var err error
	switch name {
	case application.GroupSocialMediaLinks:
		out.SocialMediaLinks, err = applyOp(doc.SocialMediaLinks, op)
	case application.GroupTeamMembers:
		out.TeamMembers, err = applyOp(doc.TeamMembers, op)
	case application.GroupMilestones:
		out.Milestones, err = applyOp(doc.Milestones, op)
	case application.GroupPriorFunding:
		out.PriorFunding, err = applyOp(doc.PriorFunding, op)
	default:
		return doc, application.InvalidField(name)
	}
	if err != nil {
		return doc, err
	}
	return out, nil
}

// ordersFor returns fresh record IDs for every group of doc.
func ordersFor(doc application.Document) map[string]group.Order {
	out := make(map[string]group.Order, len(application.Groups()))
	for _, g := range application.Groups() {
		n, _ := doc.Len(g)
		out[g] = group.NewOrder(n)
	}
	return out
}

func cloneOrders(in map[string]group.Order) map[string]group.Order {
	out := make(map[string]group.Order, len(in))
	for g, o := range in {
		out[g] = o
	}
	return out
}
