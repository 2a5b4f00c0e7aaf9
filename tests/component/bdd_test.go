//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestPostComment() {
	_, when, then := s.gherkin()

	when().
		aCommentIsPosted()

	then().
		theCommentResponseIsValid().
		theThreadContainsTheLiveComment()
}

func (s *ComponentTestSuite) TestModerateComment() {
	given, when, then := s.gherkin()

	given().
		anExistingComment()

	when().
		theContactDeletesTheComment()

	then().
		theDeletionIsAccepted().
		theThreadShowsTheCommentAsDeleted().
		aPublicEventForTheModerationWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestStrangerCannotModerate() {
	given, when, then := s.gherkin()

	given().
		anExistingComment()

	when().
		aStrangerTriesToDeleteTheComment()

	then().
		theDeletionIsForbidden().
		theThreadContainsTheLiveComment()
}

func (s *ComponentTestSuite) TestFacetFiltering() {
	_, when, then := s.gherkin()

	when().
		vacanciesAreListedWithSkill("kubernetes")

	then().
		onlyTheMatchingVacancyIsListed("vac-backend")
}
