package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MentorLoop API",
        "description": "Mentor marketplace: catalog, availability calendar, bookings",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Signup, login and token lifecycle"},
        {"name": "Mentors", "description": "Public mentor catalog and profile management"},
        {"name": "Availability", "description": "Calendar grid and slot management"},
        {"name": "Bookings", "description": "Session booking lifecycle"},
        {"name": "Reviews", "description": "Booking reviews and mentor ratings"},
        {"name": "Favorites", "description": "Saved mentors"},
        {"name": "Chat", "description": "Direct messages"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student or mentor account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token for a new access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Browse the mentor catalog",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "price_range", "in": "query", "type": "string", "enum": ["0-20", "20-40", "40-60", "60+", "any"]},
                    {"name": "available_only", "in": "query", "type": "boolean"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["relevance", "rating", "price_low", "price_high"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Mentor detail with recent reviews",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/mentors/{id}/calendar": {
            "get": {
                "tags": ["Availability"],
                "summary": "Month availability grid of complete weeks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/slots": {
            "get": {
                "tags": ["Availability"],
                "summary": "Slots for one date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/slots": {
            "post": {
                "tags": ["Availability"],
                "summary": "Open a new time slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid time range"}
                }
            }
        },
        "/availability/weekly": {
            "post": {
                "tags": ["Availability"],
                "summary": "Expand a weekly template over the next seven days",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateWeeklyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book an open slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot already booked"}
                }
            },
            "get": {
                "tags": ["Bookings"],
                "summary": "List own bookings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reviews": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Review a completed booking",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already reviewed"}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["STUDENT", "MENTOR"]}
            },
            "required": ["email", "password", "full_name", "role"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "AddSlotRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            },
            "required": ["date", "start_time", "end_time"]
        },
        "GenerateWeeklyRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "template": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "weekday": {"type": "integer"},
                            "start_time": {"type": "string"},
                            "end_time": {"type": "string"}
                        }
                    }
                }
            },
            "required": ["start_date", "template"]
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "mentor_id": {"type": "string"},
                "date": {"type": "string"},
                "slot_id": {"type": "string"}
            },
            "required": ["mentor_id", "date", "slot_id"]
        },
        "CreateReviewRequest": {
            "type": "object",
            "properties": {
                "booking_id": {"type": "string"},
                "rating": {"type": "number"},
                "comment": {"type": "string"}
            },
            "required": ["booking_id", "rating"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
