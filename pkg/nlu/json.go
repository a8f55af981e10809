package nlu

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/storyviz/pkg/domain"
)

type jsonFile struct {
	Data *jsonData `json:"rasa_nlu_data"`
}

type jsonData struct {
	CommonExamples []jsonExample `json:"common_examples"`
	// Older files split examples by purpose; they are merged.
	IntentExamples []jsonExample `json:"intent_examples"`
	EntityExamples []jsonExample `json:"entity_examples"`
	EntitySynonyms []struct {
		Value    string   `json:"value"`
		Synonyms []string `json:"synonyms"`
	} `json:"entity_synonyms"`
	RegexFeatures []struct {
		Name    string `json:"name"`
		Pattern string `json:"pattern"`
	} `json:"regex_features"`
}

type jsonExample struct {
	Text     string          `json:"text"`
	Intent   string          `json:"intent"`
	Entities []domain.Entity `json:"entities"`
}

// ParseJSON decodes the "rasa_nlu_data" JSON format. source is only used in error messages.
func ParseJSON(source string, raw []byte) (*domain.NLUData, error) {
	var f jsonFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: invalid json: %w", domain.ErrNLULoad, source, err)
	}
	if f.Data == nil {
		return nil, fmt.Errorf("%w: %s: missing \"rasa_nlu_data\" key", domain.ErrNLULoad, source)
	}

	data := &domain.NLUData{}
	groups := [][]jsonExample{f.Data.CommonExamples, f.Data.IntentExamples, f.Data.EntityExamples}
	for _, group := range groups {
		for _, ex := range group {
			data.Examples = append(data.Examples, domain.Message{
				Text:     ex.Text,
				Intent:   ex.Intent,
				Entities: ex.Entities,
			})
		}
	}
	for _, syn := range f.Data.EntitySynonyms {
		for _, s := range syn.Synonyms {
			if data.Synonyms == nil {
				data.Synonyms = make(map[string]string)
			}
			data.Synonyms[s] = syn.Value
		}
	}
	for _, rf := range f.Data.RegexFeatures {
		if data.RegexFeatures == nil {
			data.RegexFeatures = make(map[string][]string)
		}
		data.RegexFeatures[rf.Name] = append(data.RegexFeatures[rf.Name], rf.Pattern)
	}
	return data, nil
}
