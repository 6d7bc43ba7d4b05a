package shopware

// Wire types for the admin API. Optional fields are omitted rather than
// sent as null, except mediaFolderId, which the API accepts as an explicit
// null when the folder could not be resolved.

// PricePayload links a gross/net price to a currency.
type PricePayload struct {
	CurrencyID string  `json:"currencyId"`
	Gross      float64 `json:"gross"`
	Net        float64 `json:"net"`
	Linked     bool    `json:"linked"`
}

// CategoryPayload references an existing category by ID or describes a new
// one by name, optionally chained to a parent.
type CategoryPayload struct {
	ID     string           `json:"id,omitempty"`
	Name   string           `json:"name,omitempty"`
	Parent *CategoryPayload `json:"parent,omitempty"`
}

// MediaRef points at an uploaded media object.
type MediaRef struct {
	MediaID string `json:"mediaId"`
}

// VisibilityPayload lists a product on a sales channel.
type VisibilityPayload struct {
	SalesChannelID string `json:"salesChannelId"`
	Visibility     int    `json:"visibility"`
}

// ProductPayload is the create/update body for a product. ProductNumber is
// cleared before an update; the field is immutable once the product exists.
type ProductPayload struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	EAN           string              `json:"ean"`
	Price         []PricePayload      `json:"price"`
	Categories    []CategoryPayload   `json:"categories"`
	Cover         *MediaRef           `json:"cover,omitempty"`
	Media         []MediaRef          `json:"media"`
	ProductNumber string              `json:"productNumber,omitempty"`
	TaxID         string              `json:"taxId"`
	Stock         int                 `json:"stock"`
	Visibilities  []VisibilityPayload `json:"visibilities,omitempty"`
}

type mediaCreateRequest struct {
	ID            string  `json:"id"`
	Private       bool    `json:"private"`
	MediaFolderID *string `json:"mediaFolderId"`
}

type mediaUploadRequest struct {
	URL string `json:"url"`
}
