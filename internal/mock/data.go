package mock

var practices = []string{
	"Smile Dental Care",
	"Family Dentistry",
	"Bright Smiles Clinic",
	"Downtown Dental",
	"Riverside Dental Group",
	"Premier Dental Associates",
	"Gentle Care Dentistry",
	"Modern Dental Studio",
}

var keywords = []string{
	"dental implants",
	"teeth whitening",
	"invisalign",
	"root canal",
	"dental cleaning",
	"cosmetic dentistry",
	"emergency dental",
	"pediatric dentistry",
	"dental crowns",
	"gum disease",
}

// Empty entries simulate practices without a CRM company.
var companyIDs = []string{"22697001", "22697002", "22697003", "22697004", "22697005", "", "", ""}

var blogTitles = []string{
	"5 Signs You Need a Dental Checkup",
	"The Benefits of Regular Dental Cleanings",
	"Understanding Dental Implants: A Complete Guide",
	"How to Maintain Your Smile After Whitening",
	"Invisalign vs Traditional Braces: Which is Right for You?",
	"Tips for Overcoming Dental Anxiety",
	"The Connection Between Oral Health and Overall Health",
	"What to Expect During a Root Canal Procedure",
	"Choosing the Right Toothbrush for Your Needs",
	"Foods That Are Good (and Bad) for Your Teeth",
}

var gmbPostTitles = []string{
	"New Patient Special: 50% Off First Visit!",
	"Meet Our New Dental Hygienist",
	"Extended Hours Now Available",
	"Thank You for 5-Star Reviews!",
	"Holiday Hours Update",
	"New Teeth Whitening Technology",
	"Join Us for Community Dental Day",
	"Insurance Accepted - Check Your Coverage",
	"Patient Testimonial Spotlight",
	"Now Offering Same-Day Appointments",
}

var replyTexts = []string{
	"Thank you so much for your kind words! We are delighted to hear about your positive experience with our team. We look forward to seeing you at your next appointment!",
	"We appreciate you taking the time to share your feedback. Our team works hard to provide excellent care, and reviews like yours motivate us to keep improving.",
	"Thank you for your review! We are sorry to hear your experience was not perfect. Please contact our office so we can address your concerns directly.",
	"We are thrilled you had a great visit! Dr. Smith and the entire team appreciate your trust in us for your dental care needs.",
	"Thank you for the 5-star review! We are committed to making every visit comfortable and enjoyable for our patients.",
}

var blogErrorMessages = []string{
	"Error: Unable to publish to Webflow",
	"Error: Duplicate content detected",
	"Error: API rate limit exceeded",
	"Error: Invalid Webflow collection ID",
	"Error: Image upload failed",
}

// "processing" appears several times so in-flight posts dominate, as they do
// in the live sheet.
var gmbErrorReasons = []string{
	"processing",
	"No GMB account found for this practice",
	"GMB API authentication failed",
	"processing",
	"Account suspended - manual review required",
	"processing",
}
