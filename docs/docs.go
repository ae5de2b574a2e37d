// Package docs holds the swagger description of the wave portal API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {
            "get": {
                "description": "Returns the connection state, the active account with its QR code and ETH balance",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get wallet session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionResponse"}}
                }
            }
        },
        "/session/connect": {
            "post": {
                "description": "Asks the wallet provider to authorize an account. Keystore wallets take the password in the body",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Connect wallet",
                "parameters": [
                    {"description": "Key file password", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/model.ConnectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/waves": {
            "get": {
                "description": "Returns all waves newest first, decorated with nationality and flag",
                "produces": ["application/json"],
                "tags": ["waves"],
                "summary": "List waves",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.FeedResponse"}}
                }
            },
            "post": {
                "description": "Sends a wave from the connected account and waits until it is mined",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["waves"],
                "summary": "Wave",
                "parameters": [
                    {"description": "Wave data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SubmitResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/waves/stream": {
            "get": {
                "description": "WebSocket pushing every new wave as a JSON message",
                "tags": ["waves"],
                "summary": "Stream new waves",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/countries": {
            "get": {
                "description": "Returns the country table sorted by name, empty when it could not be loaded",
                "produces": ["application/json"],
                "tags": ["countries"],
                "summary": "List countries",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Country"}}}
                }
            }
        },
        "/media": {
            "get": {
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Get decorative GIF",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Media"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ConnectRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "model.Country": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "demonym": {"type": "string"},
                "flagEmoji": {"type": "string"},
                "flagUrl": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.DisplayWave": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "ago": {"type": "string"},
                "countryCode": {"type": "string"},
                "flagEmoji": {"type": "string"},
                "flagUrl": {"type": "string"},
                "message": {"type": "string"},
                "nationality": {"type": "string"},
                "shortAddress": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.FeedResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "waves": {"type": "array", "items": {"$ref": "#/definitions/model.DisplayWave"}}
            }
        },
        "model.Media": {
            "type": "object",
            "properties": {
                "height": {"type": "string"},
                "id": {"type": "string"},
                "imageUrl": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "width": {"type": "string"}
            }
        },
        "model.SessionResponse": {
            "type": "object",
            "properties": {
                "account": {"type": "string"},
                "balance": {"type": "string"},
                "connected": {"type": "boolean"},
                "qr": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "model.SubmitRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "countryCode": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.SubmitResponse": {
            "type": "object",
            "properties": {
                "blockNumber": {"type": "integer"},
                "totalWaves": {"type": "string"},
                "txHash": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Wave Portal API",
	Description:      "Wave at me: connect a wallet, send a wave to the WavePortal contract and read the feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
