package directory

// The reporting graph: edges point from subordinate to superior via
// each user's ReportsTo field. All walks are bounded by the user count
// so that out-of-band data violating acyclicity cannot hang a request.

// WouldCycle reports whether assigning newSuperiorID as userID's
// superior would make userID, transitively, its own superior. The walk
// starts at the proposed superior and follows existing edges.
func (d *Directory) WouldCycle(userID, newSuperiorID string) bool {
	if newSuperiorID == userID {
		return true
	}
	current := newSuperiorID
	for i := 0; i < d.Len(); i++ {
		u, ok := d.byID[current]
		if !ok || u.ReportsTo == nil {
			return false
		}
		if *u.ReportsTo == userID {
			return true
		}
		current = *u.ReportsTo
	}
	return false
}

// SuperiorChain returns the chain of superiors nearest first. It stops
// at the first user without a superior, at a dangling reference, or at
// the user-count bound.
func (d *Directory) SuperiorChain(userID string) []*User {
	var chain []*User
	u, ok := d.byID[userID]
	if !ok {
		return chain
	}
	current := u
	for i := 0; i < d.Len(); i++ {
		if current.ReportsTo == nil {
			break
		}
		superior, ok := d.byID[*current.ReportsTo]
		if !ok {
			break
		}
		chain = append(chain, superior)
		current = superior
	}
	return chain
}

// BulkReassignResult reports per-id outcomes of a bulk reassignment.
// Applied and the keys of Rejected partition the input set; a failure
// for one user never blocks the others.
type BulkReassignResult struct {
	Applied  []string          `json:"applied"`
	Rejected map[string]string `json:"rejected"`
}
