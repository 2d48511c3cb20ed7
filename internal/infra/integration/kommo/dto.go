package kommo

type Config struct {
	BaseURL  string
	APIToken string
	StatusID int // pipeline stage new deals are created in, 0 leaves Kommo's default
}

type customFieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type customField struct {
	FieldCode string             `json:"field_code"`
	Values    []customFieldValue `json:"values"`
}

type contactRequest struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values,omitempty"`
}

type tag struct {
	Name string `json:"name"`
}

type entityRef struct {
	ID int `json:"id"`
}

type leadEmbedded struct {
	Tags     []tag       `json:"tags,omitempty"`
	Contacts []entityRef `json:"contacts,omitempty"`
}

type leadRequest struct {
	Name     string       `json:"name"`
	StatusID int          `json:"status_id,omitempty"`
	Embedded leadEmbedded `json:"_embedded"`
}

type contactsResponse struct {
	Embedded struct {
		Contacts []entityRef `json:"contacts"`
	} `json:"_embedded"`
}

type leadsResponse struct {
	Embedded struct {
		Leads []entityRef `json:"leads"`
	} `json:"_embedded"`
}
