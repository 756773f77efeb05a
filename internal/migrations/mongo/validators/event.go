package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"date",
			"organizer",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"organizer": bson.M{
				"bsonType": "string",
				"pattern":  "^U-\\d{4,}$",
			},

			"attendees": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  "^U-\\d{4,}$",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
