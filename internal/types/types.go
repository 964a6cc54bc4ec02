package types

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Category groups rules by the kind of secret or indicator they detect.
type Category string

const (
	CatCredential Category = "credential"
	CatKey        Category = "key"
	CatToken      Category = "token"
	CatURL        Category = "url"
	CatIP         Category = "ip"
	CatGeneric    Category = "generic"
)

// ServiceKind distinguishes the two supported Atlassian services.
type ServiceKind string

const (
	ServiceJira       ServiceKind = "jira"
	ServiceConfluence ServiceKind = "confluence"
)

// CollectionKind is the enumerable container type on the remote service.
type CollectionKind string

const (
	KindProject CollectionKind = "project"
	KindSpace   CollectionKind = "space"
)

// ItemKind is the kind of a scannable item inside a collection.
type ItemKind string

const (
	KindIssue ItemKind = "issue"
	KindPage  ItemKind = "page"
)

// CollectionRef identifies a project or space on the remote service.
type CollectionRef struct {
	Key  string         `json:"key"`
	Name string         `json:"name,omitempty"`
	ID   string         `json:"id,omitempty"`
	Kind CollectionKind `json:"kind"`
}

// ItemRef is a lightweight reference to a remote issue or page, obtained
// from enumeration before the full content is fetched. Title is best-effort
// metadata and may be empty for refs discovered through search.
type ItemRef struct {
	ID            string   `json:"id"`
	CollectionKey string   `json:"collection"`
	Kind          ItemKind `json:"kind"`
	Title         string   `json:"title,omitempty"`
}

// SourceField names the part of an item a content block came from.
type SourceField string

const (
	FieldBody           SourceField = "body"
	FieldComment        SourceField = "comment"
	FieldAttachmentName SourceField = "attachment-name"
)

// ContentBlock is one normalized unit of scannable text extracted from an
// item. Blocks are owned by the scan that produced them and never shared.
type ContentBlock struct {
	Ref    ItemRef
	Source SourceField
	Text   string
}

// Finding describes a detected secret occurrence attributed to an item and
// rule. Matched holds the full matched text and is the dedup key component;
// Display is the truncated form intended for rendering.
type Finding struct {
	Ref      ItemRef     `json:"item"`
	Rule     string      `json:"rule"`
	Category Category    `json:"category"`
	Severity Severity    `json:"severity"`
	Matched  string      `json:"matched"`
	Display  string      `json:"display"`
	Source   SourceField `json:"source"`
	Offset   int         `json:"offset"`
}

// Failure records an item or page that could not be retrieved or processed.
type Failure struct {
	Ref ItemRef `json:"item"`
	Err error   `json:"-"`
	Msg string  `json:"error"`
}
