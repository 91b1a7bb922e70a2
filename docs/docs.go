// Package docs registers the Swagger spec served at /swagger. It mirrors the handler
// annotations; regenerate it after changing them.
package docs

//go:generate swag init -g cmd/api/main.go -d .. -o . --outputTypes go

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
        "/api/achievements": {
            "get": {
                "summary": "List achievements",
                "tags": [
                    "Achievements"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/admin/ai/budget": {
            "get": {
                "summary": "AI budget (Admin)",
                "tags": [
                    "Admin"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Month-to-date AI spend against the configured limit.",
                "parameters": [
                    {
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true,
                        "description": "Admin token",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/admin/orders": {
            "post": {
                "summary": "List payment orders (Admin)",
                "tags": [
                    "Admin"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Paginated and filterable list of payment orders.",
                "parameters": [
                    {
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true,
                        "description": "Admin token",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Filters, pagination and sorting",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/admin/reminders/{kind}/run": {
            "post": {
                "summary": "Run reminder batch (Admin)",
                "tags": [
                    "Admin"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Sends one reminder batch now, outside the cron schedule.",
                "parameters": [
                    {
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true,
                        "description": "Admin token",
                        "type": "string"
                    },
                    {
                        "name": "kind",
                        "in": "path",
                        "required": true,
                        "description": "morning | afternoon | evening | morning_antidote | evening_antidote | custom",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/admin/statistics": {
            "post": {
                "summary": "Statistics (Admin)",
                "tags": [
                    "Admin"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Daily aggregates for the requested data items.",
                "parameters": [
                    {
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true,
                        "description": "Admin token",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Statistic request parameters",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/admin/subscriptions/expire-trials": {
            "post": {
                "summary": "Expire trials (Admin)",
                "tags": [
                    "Admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true,
                        "description": "Admin token",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/ai/chat": {
            "post": {
                "summary": "AI chat",
                "tags": [
                    "AI"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Answers a question about the current principle. Requires pro.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Message",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "402": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "429": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/ai/insight": {
            "post": {
                "summary": "AI insight",
                "tags": [
                    "AI"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Summarises recent entries. Requires plus or higher.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "402": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "429": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/auth/telegram": {
            "post": {
                "summary": "Telegram login",
                "tags": [
                    "Auth"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Verifies a Telegram Login Widget payload and issues a session token.",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Login Widget payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/journal/entries": {
            "get": {
                "summary": "List journal entries",
                "tags": [
                    "Journal"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Newest first; filter by principle and a YYYY-MM-DD date range.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size (max 100)",
                        "type": "int"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "required": false,
                        "description": "Offset",
                        "type": "int"
                    },
                    {
                        "name": "principle_id",
                        "in": "query",
                        "required": false,
                        "description": "Principle number",
                        "type": "int"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "type": "string"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "summary": "Create journal entry",
                "tags": [
                    "Journal"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Stores an entry, recomputes stats and unlocks achievements.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Entry",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/journal/entries/{id}": {
            "get": {
                "summary": "Get journal entry",
                "tags": [
                    "Journal"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Entry ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Update journal entry",
                "tags": [
                    "Journal"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Entry ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to change",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Delete journal entry",
                "tags": [
                    "Journal"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Entry ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/principles": {
            "get": {
                "summary": "List principles",
                "tags": [
                    "Principles"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/principles/{number}": {
            "get": {
                "summary": "Get principle",
                "tags": [
                    "Principles"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "number",
                        "in": "path",
                        "required": true,
                        "description": "Principle number (1-12)",
                        "type": "int"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/push/subscriptions": {
            "post": {
                "summary": "Register push subscription",
                "tags": [
                    "Push"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "PushSubscription JSON",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Remove push subscription",
                "tags": [
                    "Push"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Endpoint to remove",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/push/vapid-public-key": {
            "get": {
                "summary": "VAPID public key",
                "tags": [
                    "Push"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Application server key for PushManager.subscribe.",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/subscriptions/current": {
            "get": {
                "summary": "Current subscription",
                "tags": [
                    "Subscriptions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/subscriptions/plans": {
            "get": {
                "summary": "Plan catalogue",
                "tags": [
                    "Subscriptions"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/subscriptions/subscribe": {
            "post": {
                "summary": "Subscribe",
                "tags": [
                    "Subscriptions"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Creates a pending payment order and returns the signed WayForPay purchase form.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Plan to buy",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/telegram/webhook": {
            "post": {
                "summary": "Telegram webhook",
                "tags": [
                    "Webhook"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Receives bot updates when the bot runs in webhook mode.",
                "parameters": [
                    {
                        "name": "update",
                        "in": "body",
                        "required": true,
                        "description": "Telegram update",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/user/me": {
            "get": {
                "summary": "Current user",
                "tags": [
                    "User"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Returns the profile and the active subscription.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/user/onboarding": {
            "post": {
                "summary": "Complete onboarding",
                "tags": [
                    "User"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Marks onboarding done and starts the one-time trial.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/user/settings": {
            "patch": {
                "summary": "Update settings",
                "tags": [
                    "User"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Partially updates reminder and profile preferences.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to change",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/user/stats": {
            "get": {
                "summary": "User stats",
                "tags": [
                    "User"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Returns streaks, totals and averages recomputed from the journal.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/api/webhooks/wayforpay": {
            "post": {
                "summary": "WayForPay webhook",
                "tags": [
                    "Webhook"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Service URL callback. Replies with the signed accept/decline acknowledgement.",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "WayForPay notification",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "summary": "Health check",
                "tags": [
                    "System"
                ],
                "produces": [
                    "application/json"
                ],
                "description": "Returns service status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
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
	Version:          "1.0",
	Host:             "localhost:8888",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Karma Diary API",
	Description:      "Karmic diary backend: journal, principles, reminders, subscriptions and AI insights.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
