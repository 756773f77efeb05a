package validators

import "go.mongodb.org/mongo-driver/bson"

var ScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"entries",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"student_id": bson.M{
				"bsonType": "string",
				"pattern":  "^U-\\d{4,}$",
			},

			"entries": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"_id", "title", "date", "type"},
					"properties": bson.M{
						"_id": bson.M{
							"bsonType": "string",
						},
						"title": bson.M{
							"bsonType":  "string",
							"minLength": 1,
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
						"type": bson.M{
							"bsonType": "string",
							"enum": []string{
								"class",
								"exam",
								"assignment",
								"other",
							},
						},
						"created_at": bson.M{
							"bsonType": "date",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
