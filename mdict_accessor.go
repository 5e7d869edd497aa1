package mdx

import "encoding/json"

// Accessor is a serializable snapshot of a Dictionary's identity and
// capability flags, suitable for passing to a worker process or
// storing alongside cached lookup results without keeping the whole
// Dictionary (and its open file handle) alive.
type Accessor struct {
	Filepath          string `json:"filepath"`
	Title             string `json:"title"`
	IsMDD             bool   `json:"is_mdd"`
	IsRecordEncrypted bool   `json:"is_record_encrypted"`
	Encoding          string `json:"encoding"`
}

// NewAccessor snapshots dict's identity for serialization.
func NewAccessor(dict *Dictionary) *Accessor {
	return &Accessor{
		Filepath:          dict.path,
		Title:             dict.Title(),
		IsMDD:             dict.IsMDD(),
		IsRecordEncrypted: dict.params.recordEncrypted(),
		Encoding:          dict.Encoding().String(),
	}
}

// NewAccessorFromJSON decodes an Accessor previously produced by Serialize.
func NewAccessorFromJSON(data []byte) (*Accessor, error) {
	a := new(Accessor)
	err := json.Unmarshal(data, a)
	return a, err
}

// Serialize encodes the accessor as JSON.
func (a *Accessor) Serialize() ([]byte, error) {
	return json.Marshal(a)
}

// Reopen opens the dictionary this accessor describes and builds its
// index, ready for Lookup/Locate/Suggest.
func (a *Accessor) Reopen(opts ...Option) (*Dictionary, error) {
	dict, err := New(a.Filepath, opts...)
	if err != nil {
		return nil, err
	}
	if err := dict.BuildIndex(); err != nil {
		dict.Close()
		return nil, err
	}
	return dict, nil
}
