package docs

const errorDefinition = `"handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_grant"},
                "error_description": {"type": "string", "example": "refresh token expired"}
            }
        }`

const securityDefinitions = `"securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }`

const paginationDefinitions = `"handler.HydraView": {
            "type": "object",
            "properties": {
                "@id": {"type": "string"},
                "@type": {"type": "string", "example": "hydra:PartialCollectionView"},
                "first": {"type": "string"},
                "previous": {"type": "string"},
                "next": {"type": "string"},
                "last": {"type": "string"}
            }
        },
        "handler.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_prev": {"type": "boolean"},
                "view": {"$ref": "#/definitions/handler.HydraView"}
            }
        }`

const pageParams = `{"type": "integer", "default": 1, "minimum": 1, "description": "page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "minimum": 1, "maximum": 100, "description": "page size", "name": "limit", "in": "query"}`

const errorResponses = `"400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Token verification unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}`

const oauthTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/v1/oauth/token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["oauth"],
                "summary": "Issue an access token",
                "parameters": [
                    {"type": "string", "description": "password, client_credentials or refresh_token", "name": "grant_type", "in": "formData", "required": true},
                    {"type": "string", "description": "client id", "name": "client_id", "in": "formData", "required": true},
                    {"type": "string", "description": "client secret", "name": "client_secret", "in": "formData", "required": true},
                    {"type": "string", "description": "required for the password grant", "name": "username", "in": "formData"},
                    {"type": "string", "description": "required for the password grant", "name": "password", "in": "formData"},
                    {"type": "string", "description": "required for the refresh_token grant", "name": "refresh_token", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/v1/secure": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["oauth"],
                "summary": "Resolve the presented bearer token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SecureResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["oauth"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "Bearer"},
                "expires_in": {"type": "integer", "example": 3600},
                "access_token_expires_at": {"type": "string", "format": "date-time"},
                "refresh_token": {"type": "string"},
                "refresh_token_expires_at": {"type": "string", "format": "date-time"},
                "client": {"$ref": "#/definitions/handler.idRef"},
                "user": {"$ref": "#/definitions/handler.idRef"}
            }
        },
        "handler.idRef": {"type": "object", "properties": {"id": {"type": "string"}}},
        "handler.MeResponse": {
            "type": "object",
            "properties": {"client_id": {"type": "string"}, "subject_id": {"type": "string"}}
        },
        "service.SecureResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "access_token_expires_at": {"type": "string", "format": "date-time"},
                "client": {"$ref": "#/definitions/handler.idRef"},
                "user": {"$ref": "#/definitions/handler.idRef"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "version": {"type": "string"},
                "tokens": {"type": "integer"}
            }
        },
        ` + errorDefinition + `
    },
    ` + securityDefinitions + `
}`

const companyTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/v1/entreprises/siren/{siren}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["entreprises"],
                "summary": "Company by SIREN",
                "parameters": [
                    {"type": "string", "description": "9-digit SIREN", "name": "siren", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Organization"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/entreprises/activite/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["entreprises"],
                "summary": "Companies by activity code",
                "parameters": [
                    {"type": "string", "description": "NAF/APE code, e.g. 62.01Z", "name": "code", "in": "path", "required": true},
                    ` + pageParams + `
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrganizationList"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/entreprises/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["entreprises"],
                "summary": "Search companies by name",
                "parameters": [
                    {"type": "string", "description": "name fragment, at least 3 characters", "name": "nom", "in": "query", "required": true},
                    ` + pageParams + `
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OrganizationList"}},
                    ` + errorResponses + `
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.Organization": {
            "type": "object",
            "properties": {
                "@type": {"type": "string", "example": "Organization"},
                "@id": {"type": "string", "example": "siren:552100554"},
                "identifier": {"type": "string", "example": "552100554"},
                "name": {"type": "string"},
                "legalName": {"type": "string"},
                "alternativeName": {"type": "string"},
                "foundingDate": {"type": "string", "example": "1955-01-01"},
                "naics": {"type": "string", "example": "29.10Z"},
                "numberOfEmployees": {"type": "string"},
                "legalForm": {"type": "string"},
                "additionalType": {"type": "string"},
                "socialEnterprise": {"type": "boolean"},
                "isEmployer": {"type": "boolean"}
            }
        },
        "handler.OrganizationList": {
            "type": "object",
            "properties": {
                "@type": {"type": "string", "example": "ItemList"},
                "numberOfItems": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "itemListElement": {"type": "array", "items": {"$ref": "#/definitions/handler.Organization"}},
                "pagination": {"$ref": "#/definitions/handler.Pagination"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "service": {"type": "string", "example": "company-api"},
                "version": {"type": "string"},
                "database": {"type": "string", "example": "connected"}
            }
        },
        ` + paginationDefinitions + `,
        ` + errorDefinition + `
    },
    ` + securityDefinitions + `
}`

const statsTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/v1/stats/activites/count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["stats"],
                "summary": "Companies per activity code",
                "parameters": [
                    ` + pageParams + `
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RatingList"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/stats/activites/filter": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["stats"],
                "summary": "Companies for one activity code",
                "parameters": [
                    {"type": "string", "description": "NAF/APE code", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AggregateRating"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/stats/activites/top": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["stats"],
                "summary": "Most represented activity codes",
                "parameters": [
                    {"type": "integer", "default": 20, "minimum": 1, "maximum": 100, "description": "number of codes", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RatingList"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/stats/activites/bottom": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/ld+json"],
                "tags": ["stats"],
                "summary": "Least represented activity codes",
                "parameters": [
                    {"type": "integer", "default": 20, "minimum": 1, "maximum": 100, "description": "number of codes", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RatingList"}},
                    ` + errorResponses + `
                }
            }
        },
        "/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.AggregateRating": {
            "type": "object",
            "properties": {
                "@type": {"type": "string", "example": "AggregateRating"},
                "@id": {"type": "string", "example": "activity:62.01Z"},
                "identifier": {"type": "string", "example": "62.01Z"},
                "ratingCount": {"type": "integer", "example": 1234}
            }
        },
        "handler.RatingList": {
            "type": "object",
            "properties": {
                "@type": {"type": "string", "example": "ItemList"},
                "numberOfItems": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "itemListElement": {"type": "array", "items": {"$ref": "#/definitions/handler.AggregateRating"}},
                "pagination": {"$ref": "#/definitions/handler.Pagination"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "service": {"type": "string", "example": "stats-api"},
                "version": {"type": "string"},
                "database": {"type": "string", "example": "connected"}
            }
        },
        ` + paginationDefinitions + `,
        ` + errorDefinition + `
    },
    ` + securityDefinitions + `
}`
