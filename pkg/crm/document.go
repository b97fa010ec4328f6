package crm

import (
	"encoding/json"

	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
)

// memberDocument is the wire form of a member record.
type memberDocument struct {
	ID         string            `json:"id,omitempty"`
	Groups     []string          `json:"groups,omitempty"`
	DebtorIDs  []string          `json:"debtor_ids,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// EncodeMember flattens a member into its wire form.
func EncodeMember(m *models.Member) ([]byte, error) {
	return json.Marshal(memberDocument{
		ID:         m.ID,
		Groups:     m.Groups,
		DebtorIDs:  m.DebtorIDs,
		Attributes: m.ExternalValues(),
	})
}

// DecodeMember rebuilds a member from its wire form over the given schema.
func DecodeMember(data []byte, cfg *fields.Config) (*models.Member, error) {
	var doc memberDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return docToMember(doc, cfg)
}

func docToMember(doc memberDocument, cfg *fields.Config) (*models.Member, error) {
	m := models.NewMember(cfg)
	m.ID = doc.ID
	m.Groups = doc.Groups
	m.DebtorIDs = doc.DebtorIDs
	if err := m.SetExternalValues(doc.Attributes); err != nil {
		return nil, err
	}
	return m, nil
}
