package dto

import "time"

type AddVocabularyRequest struct {
	Word        string `json:"word" validate:"required,max=100" example:"gegangt"`
	Correction  string `json:"correction" validate:"required,max=100" example:"gegangen"`
	Explanation string `json:"explanation,omitempty" example:"Irregular past participle of 'gehen'"`
}

func (a AddVocabularyRequest) Validate() error {
	return GetValidator().Struct(a)
}

type AddVocabularyResponse struct {
	Created bool               `json:"created"`
	Entry   VocabularyResponse `json:"entry"`
}

type VocabularyResponse struct {
	ID          uint      `json:"id"`
	Word        string    `json:"word"`
	Correction  string    `json:"correction"`
	Explanation string    `json:"explanation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type VocabularyListResponse struct {
	Entries []VocabularyResponse `json:"entries"`
	Total   int                  `json:"total"`
}
