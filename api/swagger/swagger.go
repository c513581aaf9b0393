package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gym Ops API",
        "description": "Scheduling and membership state engine for the gym back office",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Class recurrence rules and trainer timetables"},
        {"name": "Shifts", "description": "Reception shifts and shift swaps"},
        {"name": "Sessions", "description": "Personal training sessions"},
        {"name": "Memberships", "description": "Membership lifecycle"},
        {"name": "Reservations", "description": "Class seat reservations"},
        {"name": "Reconciliation", "description": "Time-derived state sweep"}
    ],
    "paths": {
        "/classes/{id}/schedule": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Create a class recurrence rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace a class recurrence rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a class's active rule rows",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Retire a class's rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/classes/{id}/occupancy": {
            "get": {
                "tags": ["Reservations"],
                "summary": "List a class's occurrences with seat counts over a week",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainers/{trainerId}/week": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Expand a trainer's week of classes and shifts",
                "parameters": [
                    {"name": "trainerId", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainers/{trainerId}/shifts": {
            "post": {
                "tags": ["Shifts"],
                "summary": "Assign a reception shift",
                "parameters": [
                    {"name": "trainerId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShiftRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Shifts"],
                "summary": "List a trainer's active reception shifts",
                "parameters": [
                    {"name": "trainerId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts/{id}": {
            "delete": {
                "tags": ["Shifts"],
                "summary": "Retire a reception shift",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/shift-exchanges": {
            "post": {
                "tags": ["Shifts"],
                "summary": "Propose a shift swap with another trainer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProposeExchangeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shift-exchanges/{id}/accept": {
            "put": {
                "tags": ["Shifts"],
                "summary": "Accept a swap proposal and exchange the two shifts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already resolved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shift-exchanges/{id}/reject": {
            "put": {
                "tags": ["Shifts"],
                "summary": "Reject a swap proposal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainers/{trainerId}/shift-exchanges": {
            "get": {
                "tags": ["Shifts"],
                "summary": "List swap proposals involving a trainer",
                "parameters": [
                    {"name": "trainerId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Book a personal session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Soft conflict, confirm with override", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Trainer unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/complete": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Mark a session as held",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/cancel": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Cancel a scheduled session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/no-show": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Record a no-show",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/members/{memberId}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List a member's personal sessions",
                "parameters": [
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/members/{memberId}/membership": {
            "post": {
                "tags": ["Memberships"],
                "summary": "Assign a plan to a member",
                "parameters": [
                    {"name": "memberId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignMembershipRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Memberships"],
                "summary": "Get a member's current membership",
                "parameters": [
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/members/{memberId}/memberships": {
            "get": {
                "tags": ["Memberships"],
                "summary": "List a member's membership history",
                "parameters": [
                    {"name": "memberId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/memberships/{id}/pause": {
            "put": {
                "tags": ["Memberships"],
                "summary": "Pause an active membership",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PauseMembershipRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/memberships/{id}/resume": {
            "put": {
                "tags": ["Memberships"],
                "summary": "Resume a paused membership",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResumeMembershipRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/memberships/{id}/cancel": {
            "put": {
                "tags": ["Memberships"],
                "summary": "Cancel a membership",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CancelMembershipRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reservations": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Reserve a seat on a class occurrence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReserveSeatRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity full or duplicate seat", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reservations/{id}/cancel": {
            "put": {
                "tags": ["Reservations"],
                "summary": "Free a reserved seat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reservations/{id}/attend": {
            "put": {
                "tags": ["Reservations"],
                "summary": "Check a member in",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reconciliation/run": {
            "post": {
                "tags": ["Reconciliation"],
                "summary": "Run the reconciliation sweep",
                "parameters": [
                    {"name": "asOf", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ClassRuleRequest": {
            "type": "object",
            "properties": {
                "weekdays": {"type": "array", "items": {"type": "integer"}},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "active_from": {"type": "string", "example": "2025-01-01"},
                "active_to": {"type": "string", "example": "2025-12-31"}
            },
            "required": ["weekdays", "start_time", "end_time", "active_from", "active_to"]
        },
        "ShiftRequest": {
            "type": "object",
            "properties": {
                "weekday": {"type": "integer"},
                "start_time": {"type": "string", "example": "13:00"},
                "end_time": {"type": "string", "example": "17:00"},
                "active_from": {"type": "string", "example": "2025-01-01"},
                "active_to": {"type": "string", "example": "2025-12-31"}
            },
            "required": ["weekday", "start_time", "end_time", "active_from", "active_to"]
        },
        "ProposeExchangeRequest": {
            "type": "object",
            "properties": {
                "origin_shift_id": {"type": "string"},
                "dest_shift_id": {"type": "string"}
            },
            "required": ["origin_shift_id", "dest_shift_id"]
        },
        "BookSessionRequest": {
            "type": "object",
            "properties": {
                "trainer_id": {"type": "string"},
                "member_id": {"type": "string"},
                "date": {"type": "string", "example": "2025-01-06"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "override": {"type": "boolean"},
                "notes": {"type": "string"}
            },
            "required": ["trainer_id", "member_id", "date", "start_time", "end_time"]
        },
        "AssignMembershipRequest": {
            "type": "object",
            "properties": {
                "plan_id": {"type": "string"},
                "method": {"type": "string", "enum": ["CASH", "CARD", "TRANSFER"]},
                "start_date": {"type": "string", "example": "2025-02-01"}
            },
            "required": ["plan_id", "method"]
        },
        "PauseMembershipRequest": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["days", "reason"]
        },
        "ResumeMembershipRequest": {
            "type": "object",
            "properties": {
                "extend": {"type": "boolean"}
            }
        },
        "CancelMembershipRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            },
            "required": ["reason"]
        },
        "ReserveSeatRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"},
                "member_id": {"type": "string"},
                "date": {"type": "string", "example": "2025-01-06"}
            },
            "required": ["class_id", "member_id", "date"]
        },
        "ReconciliationReport": {
            "type": "object",
            "properties": {
                "expired_memberships": {"type": "integer"},
                "inactive_members": {"type": "integer"},
                "delinquent_members": {"type": "integer"},
                "reservation_no_shows": {"type": "integer"},
                "session_no_shows": {"type": "integer"}
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
                "pagination": {"type": "object"},
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
