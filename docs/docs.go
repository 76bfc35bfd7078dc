// Package docs holds the OpenAPI description served at /swagger.
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
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in with email and password",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/auth/refresh": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange a refresh token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"auth"
				],
				"summary": "Update profile",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/change-password": {
			"put": {
				"tags": [
					"auth"
				],
				"summary": "Change password",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/auth/my-outlets": {
			"get": {
				"tags": [
					"outlets"
				],
				"summary": "Outlets the caller belongs to",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/outlets/current": {
			"put": {
				"tags": [
					"outlets"
				],
				"summary": "Select the working outlet",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/state/{store}": {
			"get": {
				"tags": [
					"outlets"
				],
				"summary": "Load a client state snapshot",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Client store name",
						"name": "store",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"outlets"
				],
				"summary": "Save a client state snapshot",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Client store name",
						"name": "store",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/categories": {
			"get": {
				"tags": [
					"hotels"
				],
				"summary": "List categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"hotels"
				],
				"summary": "Create category",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/categories/{id}": {
			"put": {
				"tags": [
					"hotels"
				],
				"summary": "Update",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"hotels"
				],
				"summary": "Delete",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/amenities": {
			"get": {
				"tags": [
					"hotels"
				],
				"summary": "List amenities",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"hotels"
				],
				"summary": "Create amenitie",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/amenities/{id}": {
			"put": {
				"tags": [
					"hotels"
				],
				"summary": "Update",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"hotels"
				],
				"summary": "Delete",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/rooms": {
			"get": {
				"tags": [
					"hotels"
				],
				"summary": "List rooms",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"hotels"
				],
				"summary": "Create room",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/rooms/{id}": {
			"put": {
				"tags": [
					"hotels"
				],
				"summary": "Update",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"hotels"
				],
				"summary": "Delete",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/rooms/{id}/status": {
			"patch": {
				"tags": [
					"hotels"
				],
				"summary": "Set housekeeping status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/rooms/availability": {
			"get": {
				"tags": [
					"bookings"
				],
				"summary": "Rooms free for a date range",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "from",
						"in": "query"
					},
					{
						"type": "string",
						"name": "to",
						"in": "query"
					},
					{
						"type": "string",
						"name": "category_id",
						"in": "query"
					},
					{
						"type": "string",
						"name": "capacity",
						"in": "query"
					},
					{
						"type": "string",
						"name": "sort",
						"in": "query"
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/rooms/{id}/active-booking": {
			"get": {
				"tags": [
					"bookings"
				],
				"summary": "Folio of the room's current stay",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Room ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings": {
			"get": {
				"tags": [
					"bookings"
				],
				"summary": "List bookings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"name": "page",
						"in": "query"
					},
					{
						"type": "string",
						"name": "limit",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Book one or more rooms for the same guest",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/estimate": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Price a booking without saving it",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/export": {
			"get": {
				"tags": [
					"bookings"
				],
				"summary": "Download bookings as XLSX",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}": {
			"get": {
				"tags": [
					"bookings"
				],
				"summary": "Folio of a booking",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}/check-in": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Check the guest in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}/extend": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Extend the stay",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}/checkout": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Settle and check out",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}/cancel": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Cancel the booking",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/hotel/bookings/{id}/charges": {
			"post": {
				"tags": [
					"bookings"
				],
				"summary": "Add a folio charge",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/categories": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "List menu categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"restaurants"
				],
				"summary": "Create menu category",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/categories/{id}": {
			"put": {
				"tags": [
					"restaurants"
				],
				"summary": "Update menu category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"restaurants"
				],
				"summary": "Delete menu category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/sub-categories": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "List menu sub-categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "category_id",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"restaurants"
				],
				"summary": "Create menu sub-category",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/sub-categories/{id}": {
			"put": {
				"tags": [
					"restaurants"
				],
				"summary": "Update menu sub-category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"restaurants"
				],
				"summary": "Delete menu sub-category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/menu-items": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "List menu items",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "category",
						"in": "query"
					},
					{
						"type": "string",
						"name": "sub_category",
						"in": "query"
					},
					{
						"type": "string",
						"name": "dietary",
						"in": "query"
					},
					{
						"type": "string",
						"name": "available",
						"in": "query"
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"restaurants"
				],
				"summary": "Create menu item",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/menu-items/{id}": {
			"put": {
				"tags": [
					"restaurants"
				],
				"summary": "Update menu item",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"restaurants"
				],
				"summary": "Delete menu item",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/orders": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "List orders",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"name": "page",
						"in": "query"
					},
					{
						"type": "string",
						"name": "limit",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"restaurants"
				],
				"summary": "Place an order",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/orders/{id}": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "Get order",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"restaurants"
				],
				"summary": "Update order",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"restaurants"
				],
				"summary": "Delete order",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/orders/{id}/advance": {
			"post": {
				"tags": [
					"restaurants"
				],
				"summary": "Move the order to its next kitchen status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/restaurant/kot": {
			"get": {
				"tags": [
					"restaurants"
				],
				"summary": "Kitchen order tickets grouped by status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/travel/vehicles": {
			"get": {
				"tags": [
					"travel"
				],
				"summary": "List vehicles",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"name": "type",
						"in": "query"
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"travel"
				],
				"summary": "Create vehicle",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/travel/vehicles/{id}": {
			"get": {
				"tags": [
					"travel"
				],
				"summary": "Get vehicle",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"travel"
				],
				"summary": "Update vehicle",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"travel"
				],
				"summary": "Delete vehicle",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/travel/contacts": {
			"get": {
				"tags": [
					"travel"
				],
				"summary": "List contacts",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "search",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"travel"
				],
				"summary": "Create contact",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/outlets/{outletID}/travel/contacts/{id}": {
			"get": {
				"tags": [
					"travel"
				],
				"summary": "Get contact",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"travel"
				],
				"summary": "Update contact",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"travel"
				],
				"summary": "Delete contact",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Resource ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/outlets/{outletID}/dashboard": {
			"get": {
				"tags": [
					"analytics"
				],
				"summary": "Outlet dashboard counters",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/response.StandardApiResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Outlet ID",
						"name": "outletID",
						"in": "path",
						"required": true
					}
				]
			}
		}
	},
	"definitions": {
		"response.StandardApiResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"status_code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"data": {},
				"errors": {}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Outlet Desk API",
	Description:      "Admin backend for hotel, restaurant and travel outlets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
