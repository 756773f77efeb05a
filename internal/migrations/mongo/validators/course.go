package validators

import "go.mongodb.org/mongo-driver/bson"

var CourseValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"code",
			"slot",
			"instructor",
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
				"maxLength": 200,
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 20,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"slot": bson.M{
				"bsonType": "object",
				"required": []string{"day", "start_time", "end_time"},
				"properties": bson.M{
					"day": bson.M{
						"bsonType": "string",
						"enum": []string{
							"Monday",
							"Tuesday",
							"Wednesday",
							"Thursday",
							"Friday",
							"Saturday",
							"Sunday",
						},
					},
					"start_time": bson.M{
						"bsonType": "string",
						"pattern":  "^\\d{2}:\\d{2}$",
					},
					"end_time": bson.M{
						"bsonType": "string",
						"pattern":  "^\\d{2}:\\d{2}$",
					},
				},
			},

			"instructor": bson.M{
				"bsonType": "string",
				"pattern":  "^U-\\d{4,}$",
			},

			"students": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  "^U-\\d{4,}$",
				},
			},

			"lecture_materials": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
