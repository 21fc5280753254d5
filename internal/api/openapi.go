package api

import (
	"fmt"
	"net/http"

	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/pkg/openapi"
)

// buildSpec describes the triage API surface as an OpenAPI 3.1 document.
func buildSpec(cfg *config.Config) (*openapi.Spec, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"filename":           {Type: "string"},
				"content_type":       {Type: "string"},
				"size_bytes":         {Type: "integer"},
				"page_count":         {Type: "integer"},
				"storage_key":        {Type: "string"},
				"status":             {Type: "string", Enum: []any{"pending", "classified", "duplicate"}},
				"uploaded_at":        {Type: "string", Format: "date-time"},
				"updated_at":         {Type: "string", Format: "date-time"},
				"primary_type":       {Type: "string"},
				"primary_confidence": {Type: "number"},
				"assigned_team":      {Type: "string"},
				"classified_at":      {Type: "string", Format: "date-time"},
			},
		},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"document_id":      {Type: "string", Format: "uuid"},
				"position":         {Type: "integer"},
				"request_type":     {Type: "string"},
				"sub_request_type": {Type: "string"},
				"confidence":       {Type: "number", Description: "Combined confidence in [0, 1]"},
				"reason":           {Type: "string"},
				"extracted_data":   {Type: "object", Description: "Field name to extracted value"},
				"is_primary":       {Type: "boolean"},
				"assigned_team":    {Type: "string"},
				"duplicate_of":     {Type: "string", Description: "Originating document filename when the source was a duplicate"},
				"model_name":       {Type: "string"},
				"provider_name":    {Type: "string"},
				"classified_at":    {Type: "string", Format: "date-time"},
			},
		},
		"ClassificationList": {
			Type:  "array",
			Items: openapi.SchemaRef("Classification"),
		},
	})

	addDocumentPaths(spec)
	addClassificationPaths(spec)

	return spec, nil
}

func addDocumentPaths(spec *openapi.Spec) {
	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List documents",
			Tags:    []string{"documents"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search filename and primary type", false),
				openapi.QueryParam("status", "string", "Filter by status", false),
				openapi.QueryParam("assigned_team", "string", "Filter by routed team", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated documents", "Document"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload a document",
			Description: "Accepts a multipart form with a single .eml, .pdf, or .txt file.",
			Tags:        []string{"documents"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Registered document", "Document"),
				400: openapi.ResponseRef("BadRequest"),
				415: {Description: "Unsupported file type"},
			},
		},
	}

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document", "Document"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search documents",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated documents", "Document"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addClassificationPaths(spec *openapi.Spec) {
	spec.Paths["/classifications"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List classifications",
			Tags:    []string{"classifications"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("request_type", "string", "Filter by request type", false),
				openapi.QueryParam("assigned_team", "string", "Filter by routed team", false),
				openapi.QueryParam("is_primary", "boolean", "Filter to primary records", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated classifications", "Classification"),
			},
		},
	}

	spec.Paths["/classifications/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a classification",
			Tags:       []string{"classifications"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Classification identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification", "Classification"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a classification",
			Tags:       []string{"classifications"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Classification identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/classifications/document/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List a document's classification records",
			Tags:       []string{"classifications"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification records", "ClassificationList"),
			},
		},
	}

	spec.Paths["/classifications/{documentId}"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify a document",
			Description: "Runs the triage workflow against the stored document and replaces its records.",
			Tags:        []string{"classifications"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("documentId", "Document identifier")},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored classification records", "ClassificationList"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/classifications/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search classifications",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated classifications", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func specHandler(cfg *config.Config) (http.HandlerFunc, error) {
	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	return openapi.ServeSpec(data), nil
}
