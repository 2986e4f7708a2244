package kernel

// UserID is the identity-provider-assigned account identifier.
type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// DocumentID is a document-store record identifier.
type DocumentID string

func NewDocumentID(id string) DocumentID { return DocumentID(id) }
func (d DocumentID) String() string      { return string(d) }
func (d DocumentID) IsEmpty() bool       { return string(d) == "" }
