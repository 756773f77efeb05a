package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"type",
			"availability",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"room",
					"equipment",
					"lab",
				},
			},

			"availability": bson.M{
				"bsonType": "bool",
			},

			"reserved_by": bson.M{
				"bsonType": "string",
				"pattern":  "^U-\\d{4,}$",
			},

			"reservation_date": bson.M{
				"bsonType": "date",
			},

			"reservation_expiry": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
