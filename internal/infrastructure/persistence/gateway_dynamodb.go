package persistence

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/domain/entity"
)

// DynamoGateway persists the catalog in DynamoDB, one table for clips and
// one for clip requests. Attribute names follow the entity JSON tags.
type DynamoGateway struct {
	db           *dynamodb.DynamoDB
	clipTable    string
	requestTable string
}

func NewDynamoGateway(sess *session.Session) *DynamoGateway {
	return &DynamoGateway{
		db:           dynamodb.New(sess),
		clipTable:    os.Getenv("AWS_DB_CLIP_TABLE"),
		requestTable: os.Getenv("AWS_DB_REQUEST_TABLE"),
	}
}

// Add a new clip. The creation timestamp doubles as the ID; it is unique
// at the gateway's write granularity and monotone with UploadDate.
func (g *DynamoGateway) AddClip(title, animeName, category, videoUrl, thumbnailUrl string) (*entity.Clip, error) {
	now := time.Now().UnixNano()
	clip := entity.NewClip(now, title, animeName, category, videoUrl, thumbnailUrl, now)
	av, err := dynamodbattribute.MarshalMap(clip)
	if err != nil {
		return nil, err
	}
	_, err = g.db.PutItem(&dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(g.clipTable),
	})
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// Delete the clip by ID, reporting whether it existed.
func (g *DynamoGateway) DeleteClip(id int64) (bool, error) {
	return g.deleteById(g.clipTable, id)
}

// Get every catalogued clip, unordered.
func (g *DynamoGateway) GetAllClips() ([]entity.Clip, error) {
	out, err := g.db.Scan(&dynamodb.ScanInput{TableName: aws.String(g.clipTable)})
	if err != nil {
		return nil, err
	}
	return unmarshalClips(out.Items)
}

// Get the clips whose category matches exactly.
func (g *DynamoGateway) GetClipsByCategory(category string) ([]entity.Clip, error) {
	out, err := g.db.Scan(&dynamodb.ScanInput{
		TableName:                aws.String(g.clipTable),
		FilterExpression:         aws.String("#c = :c"),
		ExpressionAttributeNames: map[string]*string{"#c": aws.String("category")},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":c": {S: aws.String(category)},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalClips(out.Items)
}

// Search clips by substring over title, anime name and category.
func (g *DynamoGateway) SearchClips(searchText string) ([]entity.Clip, error) {
	out, err := g.db.Scan(&dynamodb.ScanInput{
		TableName:        aws.String(g.clipTable),
		FilterExpression: aws.String("contains(#t, :q) or contains(#a, :q) or contains(#c, :q)"),
		ExpressionAttributeNames: map[string]*string{
			"#t": aws.String("title"),
			"#a": aws.String("animeName"),
			"#c": aws.String("category"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":q": {S: aws.String(searchText)},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalClips(out.Items)
}

// Get the distinct categories in use.
func (g *DynamoGateway) GetAllCategories() ([]string, error) {
	out, err := g.db.Scan(&dynamodb.ScanInput{
		TableName:                aws.String(g.clipTable),
		ProjectionExpression:     aws.String("#c"),
		ExpressionAttributeNames: map[string]*string{"#c": aws.String("category")},
	})
	if err != nil {
		return nil, err
	}
	distinct := make(map[string]struct{})
	var categories []string
	for _, item := range out.Items {
		attr := item["category"]
		if attr == nil || attr.S == nil {
			continue
		}
		if _, ok := distinct[*attr.S]; ok {
			continue
		}
		distinct[*attr.S] = struct{}{}
		categories = append(categories, *attr.S)
	}
	return categories, nil
}

// Submit a clip request with pending status.
func (g *DynamoGateway) SubmitClipRequest(title, animeName, description, requesterContact string) (*entity.ClipRequest, error) {
	now := time.Now().UnixNano()
	request := entity.NewClipRequest(now, title, animeName, description, requesterContact, now)
	av, err := dynamodbattribute.MarshalMap(request)
	if err != nil {
		return nil, err
	}
	_, err = g.db.PutItem(&dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(g.requestTable),
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Get every clip request, unordered.
func (g *DynamoGateway) GetAllClipRequests() ([]entity.ClipRequest, error) {
	out, err := g.db.Scan(&dynamodb.ScanInput{TableName: aws.String(g.requestTable)})
	if err != nil {
		return nil, err
	}
	requests := make([]entity.ClipRequest, 0, len(out.Items))
	if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Update the status of a request; nil when the ID is unknown.
func (g *DynamoGateway) UpdateRequestStatus(requestId int64, newStatus string) (*entity.ClipRequest, error) {
	out, err := g.db.UpdateItem(&dynamodb.UpdateItemInput{
		TableName:                aws.String(g.requestTable),
		Key:                      idKey(requestId),
		ConditionExpression:      aws.String("attribute_exists(id)"),
		UpdateExpression:         aws.String("SET #s = :s"),
		ExpressionAttributeNames: map[string]*string{"#s": aws.String("status")},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":s": {S: aws.String(newStatus)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return nil, nil
		}
		return nil, err
	}
	var request entity.ClipRequest
	if err := dynamodbattribute.UnmarshalMap(out.Attributes, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// Delete the clip request by ID, reporting whether it existed.
func (g *DynamoGateway) DeleteClipRequest(requestId int64) (bool, error) {
	return g.deleteById(g.requestTable, requestId)
}

func (g *DynamoGateway) deleteById(table string, id int64) (bool, error) {
	out, err := g.db.DeleteItem(&dynamodb.DeleteItemInput{
		TableName:    aws.String(table),
		Key:          idKey(id),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func idKey(id int64) map[string]*dynamodb.AttributeValue {
	n, _ := dynamodbattribute.Marshal(id)
	return map[string]*dynamodb.AttributeValue{"id": n}
}

func unmarshalClips(items []map[string]*dynamodb.AttributeValue) ([]entity.Clip, error) {
	clips := make([]entity.Clip, 0, len(items))
	if err := dynamodbattribute.UnmarshalListOfMaps(items, &clips); err != nil {
		return nil, err
	}
	return clips, nil
}
