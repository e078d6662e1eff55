package mongostore

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodshare/foodshare/internal/store"
)

// containsFold matches s anywhere in a field, ignoring case.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// listingFilter builds the filter for the available-foods listing.
func listingFilter(q store.ListingQuery) bson.M {
	filter := bson.M{"food_status": store.FoodAvailable}
	if q.Search != "" {
		filter["food_name"] = containsFold(q.Search)
	}
	if q.Location != "" {
		filter["pickup_location"] = containsFold(q.Location)
	}
	return filter
}

// listingOptions builds sort, skip and limit for the listing.
func listingOptions(q store.ListingQuery) *options.FindOptions {
	field := q.SortField
	if field == "" {
		field = "expire_date"
	}
	dir := 1
	if q.SortDesc {
		dir = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})
	if q.Paginate && q.Limit > 0 {
		opts.SetSkip(int64(q.Skip())).SetLimit(int64(q.Limit))
	}
	return opts
}

// requestSearchFilter matches q against the free-text request fields.
func requestSearchFilter(q string) bson.M {
	if q == "" {
		return bson.M{}
	}
	re := containsFold(q)
	return bson.M{"$or": bson.A{
		bson.M{"requester_name": re},
		bson.M{"requester_email": re},
		bson.M{"pickup_location": re},
		bson.M{"status": re},
	}}
}

// countFilter builds the filter for a food count.
func countFilter(c store.FoodCount) bson.M {
	filter := bson.M{}
	if c.DonorEmail != "" {
		filter["donators_email"] = c.DonorEmail
	}
	if c.Status != "" {
		filter["food_status"] = c.Status
	}
	return filter
}

// updateDocument translates a partial update into a $set document.
func updateDocument(u store.FoodUpdate) bson.M {
	set := bson.M{}
	if u.FoodName != nil {
		set["food_name"] = *u.FoodName
	}
	if u.FoodImage != nil {
		set["food_image"] = *u.FoodImage
	}
	if u.FoodQuantity != nil {
		set["food_quantity"] = *u.FoodQuantity
	}
	if u.ExpireDate != nil {
		set["expire_date"] = *u.ExpireDate
	}
	if u.PickupLocation != nil {
		set["pickup_location"] = *u.PickupLocation
	}
	if u.AdditionalNotes != nil {
		set["additional_notes"] = *u.AdditionalNotes
	}
	if u.FoodStatus != nil {
		set["food_status"] = *u.FoodStatus
	}
	return bson.M{"$set": set}
}
