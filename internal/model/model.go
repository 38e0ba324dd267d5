package model

type ItemKind string

const (
	KindChallengeResponse ItemKind = "challenge_response"
	KindChallengeOnly     ItemKind = "challenge_only"
	KindTitle             ItemKind = "title"
	KindNote              ItemKind = "note"
	KindWarning           ItemKind = "warning"
	KindCaution           ItemKind = "caution"
)

// MaxDepth is the deepest nesting level an item may have. Depth is always
// in [0, MaxDepth]; operations that would leave that range are no-ops.
const MaxDepth = 3

type GroupCategory string

const (
	CategoryNormal    GroupCategory = "normal"
	CategoryEmergency GroupCategory = "emergency"
	CategoryAbnormal  GroupCategory = "abnormal"
)

// Item is one row of a checklist. Items carry no parent/child references:
// hierarchy is re-derived from (sequence position, depth, kind) on demand.
type Item struct {
	ID        string   `json:"id"`
	Kind      ItemKind `json:"kind"`
	Challenge string   `json:"challenge"`
	// Response is meaningful only for KindChallengeResponse.
	Response    string `json:"response,omitempty"`
	Depth       int    `json:"depth"`
	Centered    bool   `json:"centered,omitempty"`
	Collapsible bool   `json:"collapsible,omitempty"`
}

// Checklist owns an ordered item sequence. The order, combined with each
// item's depth, is the sole encoding of document position and hierarchy.
type Checklist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Group struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Category   GroupCategory `json:"category"`
	Checklists []Checklist   `json:"checklists"`
}

// Metadata carries document-level fields imported from the source file.
// Extra holds source-format fields we preserve but do not interpret.
type Metadata struct {
	AircraftMake  string            `json:"aircraftMake,omitempty"`
	AircraftModel string            `json:"aircraftModel,omitempty"`
	Copyright     string            `json:"copyright,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// File is the top-level document: File -> Group[] -> Checklist[] -> Item[].
type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SourceFormat string   `json:"sourceFormat,omitempty"`
	Metadata     Metadata `json:"metadata"`
	Groups       []Group  `json:"groups"`

	// Dirty is set by the document store on any committed mutation and
	// cleared on save. Never persisted.
	Dirty bool `json:"-"`
}

func ParseItemKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case KindChallengeResponse, KindChallengeOnly, KindTitle, KindNote, KindWarning, KindCaution:
		return ItemKind(s), true
	}
	return "", false
}

func ParseGroupCategory(s string) (GroupCategory, bool) {
	switch GroupCategory(s) {
	case CategoryNormal, CategoryEmergency, CategoryAbnormal:
		return GroupCategory(s), true
	}
	return "", false
}

// Clone returns a copy of the item. Items hold only value fields today, but
// every copy in the engine goes through Clone so history snapshots stay
// valid if reference fields are ever added.
func (it Item) Clone() Item {
	return it
}

func (c Checklist) Clone() Checklist {
	out := c
	out.Items = make([]Item, len(c.Items))
	for i := range c.Items {
		out.Items[i] = c.Items[i].Clone()
	}
	return out
}

func (g Group) Clone() Group {
	out := g
	out.Checklists = make([]Checklist, len(g.Checklists))
	for i := range g.Checklists {
		out.Checklists[i] = g.Checklists[i].Clone()
	}
	return out
}

func (m Metadata) Clone() Metadata {
	out := m
	if m.Extra != nil {
		out.Extra = make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func (f File) Clone() File {
	out := f
	out.Metadata = f.Metadata.Clone()
	out.Groups = make([]Group, len(f.Groups))
	for i := range f.Groups {
		out.Groups[i] = f.Groups[i].Clone()
	}
	return out
}

func (f *File) FindGroup(id string) (*Group, bool) {
	for i := range f.Groups {
		if f.Groups[i].ID == id {
			return &f.Groups[i], true
		}
	}
	return nil, false
}

func (f *File) FindChecklist(id string) (*Checklist, bool) {
	for i := range f.Groups {
		for j := range f.Groups[i].Checklists {
			if f.Groups[i].Checklists[j].ID == id {
				return &f.Groups[i].Checklists[j], true
			}
		}
	}
	return nil, false
}

func (c *Checklist) IndexOf(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
