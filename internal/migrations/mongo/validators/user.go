package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"password",
			"role",
			"is_approved",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 60,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 254,
			},

			"password": bson.M{
				"bsonType": "string",
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"user",
					"owner",
				},
			},

			"is_approved": bson.M{
				"bsonType": "bool",
			},

			"approval_token": bson.M{
				"bsonType": "string",
			},

			"approved_at": bson.M{
				"bsonType": "date",
			},

			"image": bson.M{
				"bsonType": "string",
			},

			"business_name": bson.M{
				"bsonType": "string",
			},

			"phone_number": bson.M{
				"bsonType": "string",
			},

			"address": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
